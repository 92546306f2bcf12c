package config

// Scenario file extensions
var (
	YAMLExtensions = []string{".yaml", ".yml"}
	HCLExtensions  = []string{".hcl"}
)

// SettingsFileName is looked up in the working directory when --config is not given.
const SettingsFileName = "comprex.yaml"

// Environment variables overriding settings
const (
	EnvLogLevel = "COMPREX_LOG_LEVEL"
	EnvColor    = "COMPREX_COLOR"
	EnvSeed     = "COMPREX_SEED"
	EnvDataDir  = "COMPREX_DATA_DIR"
)

// Colour modes
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Name bound to the accumulator inside a reduce step.
const AccumulatorName = "acc"

// Comprehension option keywords, written after ';'
const (
	OptionUniq   = "uniq"
	OptionInto   = "into"
	OptionReduce = "reduce"
)

// Conversion kinds
const (
	KindList    = "list"
	KindTuple   = "tuple"
	KindString  = "string"
	KindChars   = "chars"
	KindDigits  = "digits"
	KindBits    = "bits"
	KindInteger = "integer"
)

var ConvertKinds = []string{KindList, KindTuple, KindString, KindChars, KindDigits, KindBits, KindInteger}

// Source kinds
const (
	SourceValues = "values"
	SourceRange  = "range"
	SourceExpr   = "expr"
	SourceRandom = "random"
	SourceSQL    = "sql"
	SourceFile   = "file"
)

// Random sample templates
const (
	SampleNumbers   = "numbers"
	SampleEmployees = "employees"
	SampleStudents  = "students"
)

// File source formats
const (
	FormatLines = "lines"
	FormatYAML  = "yaml"
)

// Built-in function names
const (
	LenFuncName      = "len"
	DigitsFuncName   = "digits"
	UndigitsFuncName = "undigits"
	CharsFuncName    = "chars"
	StringFuncName   = "string"
	IntegerFuncName  = "integer"
	BitsFuncName     = "bits"
	TupleFuncName    = "tuple"
	ListFuncName     = "list"
	KeysFuncName     = "keys"
	ValuesFuncName   = "values"
	GetFuncName      = "get"
	HasFuncName      = "has"
	UpperFuncName    = "upper"
	LowerFuncName    = "lower"
	AbsFuncName      = "abs"
	MinFuncName      = "min"
	MaxFuncName      = "max"
	SumFuncName      = "sum"
	ReverseFuncName  = "reverse"
	SortFuncName     = "sort"
	RangeFuncName    = "range"
)
