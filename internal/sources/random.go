package sources

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/funvibe/comprex/internal/config"
	"github.com/funvibe/comprex/internal/evaluator"
)

// Random generates Count sample records from Rand. The same seed yields the same records.
type Random struct {
	Sample string
	Count  int
	Rand   *rand.Rand
}

type sampleFunc func(r *rand.Rand) (evaluator.Object, error)

var samples = map[string]sampleFunc{
	config.SampleNumbers:   sampleNumber,
	config.SampleEmployees: sampleEmployee,
	config.SampleStudents:  sampleStudent,
}

var (
	firstNames  = []string{"Ada", "Brian", "Chloe", "Dmitri", "Eve", "Farah", "Goran", "Hana", "Ivo", "June"}
	departments = []string{"engineering", "sales", "support", "finance"}
	hobbies     = []string{"chess", "cycling", "painting", "climbing", "piano", "gardening"}
	subjects    = []string{"math", "physics", "history", "art"}
)

func (p *Random) Load(ctx context.Context, _ *evaluator.Environment) (evaluator.Object, error) {
	gen := samples[p.Sample]
	if gen == nil {
		return nil, fmt.Errorf("unknown sample %q", p.Sample)
	}
	items := make([]evaluator.Object, 0, p.Count)
	for i := 0; i < p.Count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		item, err := gen(p.Rand)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return evaluator.NewList(items), nil
}

func sampleNumber(r *rand.Rand) (evaluator.Object, error) {
	return &evaluator.Integer{Value: int64(r.Intn(100) + 1)}, nil
}

func str(s string) evaluator.Object { return evaluator.NewString(s) }

func pick(r *rand.Rand, from []string) string { return from[r.Intn(len(from))] }

// id draws a version 4 UUID from r so that seeded runs repeat.
func id(r *rand.Rand) (evaluator.Object, error) {
	u, err := uuid.NewRandomFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("generating id: %w", err)
	}
	return str(u.String()), nil
}

// sampleEmployee omits "hobbies" for about a third of the records, so
// mapping patterns that require it skip them.
func sampleEmployee(r *rand.Rand) (evaluator.Object, error) {
	rid, err := id(r)
	if err != nil {
		return nil, err
	}
	m := evaluator.NewMap().
		Put(str("id"), rid).
		Put(str("name"), str(pick(r, firstNames))).
		Put(str("age"), &evaluator.Integer{Value: int64(22 + r.Intn(40))}).
		Put(str("department"), str(pick(r, departments)))
	if r.Intn(3) != 0 {
		n := 1 + r.Intn(3)
		list := make([]evaluator.Object, n)
		for i := range list {
			list[i] = str(pick(r, hobbies))
		}
		m = m.Put(str("hobbies"), evaluator.NewList(list))
	}
	return m, nil
}

func sampleStudent(r *rand.Rand) (evaluator.Object, error) {
	rid, err := id(r)
	if err != nil {
		return nil, err
	}
	scores := evaluator.NewMap()
	for _, subject := range subjects {
		scores = scores.Put(str(subject), &evaluator.Integer{Value: int64(40 + r.Intn(61))})
	}
	return evaluator.NewMap().
		Put(str("id"), rid).
		Put(str("name"), str(pick(r, firstNames))).
		Put(str("grade"), &evaluator.Integer{Value: int64(1 + r.Intn(12))}).
		Put(str("scores"), scores), nil
}
