package feature

// Kind declares the semantic type of a feature. It is fixed at schema
// declaration time; rows never change a feature's kind.
type Kind string

const (
	KindBoolean Kind = "boolean"
	KindInteger Kind = "integer"
	KindNumeric Kind = "numeric"
	// KindRatio marks a high-precision ratio feature whose baseline value
	// is kept at 2 decimal places instead of 3.
	KindRatio       Kind = "ratio"
	KindCategorical Kind = "categorical"
)

// Field declares one feature: its name and semantic kind.
type Field struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

// IsNumeric reports whether the field carries numeric readings.
func (f Field) IsNumeric() bool {
	return f.Kind == KindInteger || f.Kind == KindNumeric || f.Kind == KindRatio
}

// Schema is the ordered feature set. Order defines display and model input
// order and is identical everywhere: baseline building, serialization, and
// classifier queries.
type Schema struct {
	fields []Field
	index  map[string]int
}

// NewSchema builds a schema from an ordered field list.
func NewSchema(fields []Field) Schema {
	index := make(map[string]int, len(fields))
	copied := make([]Field, len(fields))
	copy(copied, fields)
	for i, f := range copied {
		index[f.Name] = i
	}
	return Schema{fields: copied, index: index}
}

// Fields returns the ordered field list.
func (s Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Names returns the ordered feature names.
func (s Schema) Names() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

// Len returns the number of declared features.
func (s Schema) Len() int { return len(s.fields) }

// FieldAt returns the field at position i.
func (s Schema) FieldAt(i int) Field { return s.fields[i] }

// Lookup returns the field declared under name.
func (s Schema) Lookup(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Clinical feature names.
const (
	FeatureGender         = "gender"
	FeatureAge            = "age"
	FeatureAnginaClass    = "angina_functional_class"
	FeaturePostInfarction = "post_infarction_cardiosclerosis"
	FeatureMultifocal     = "multifocal_atherosclerosis"
	FeatureDiabetes       = "diabetes_mellitus"
	FeatureHypertension   = "hypertension"
	FeatureCholesterol    = "cholesterol_level"
	FeatureBMI            = "bmi"
	FeatureLVEF           = "lvef_percent"
	FeatureSyntaxScore    = "syntax_score"
	FeatureFFR            = "ffr"
)

// ClinicalSchema returns the fixed clinical feature set used by the adverse
// outcome model. The order matches the model's training column order.
func ClinicalSchema() Schema {
	return NewSchema([]Field{
		{Name: FeatureGender, Kind: KindCategorical},
		{Name: FeatureAge, Kind: KindInteger},
		{Name: FeatureAnginaClass, Kind: KindInteger},
		{Name: FeaturePostInfarction, Kind: KindBoolean},
		{Name: FeatureMultifocal, Kind: KindBoolean},
		{Name: FeatureDiabetes, Kind: KindBoolean},
		{Name: FeatureHypertension, Kind: KindBoolean},
		{Name: FeatureCholesterol, Kind: KindNumeric},
		{Name: FeatureBMI, Kind: KindNumeric},
		{Name: FeatureLVEF, Kind: KindNumeric},
		{Name: FeatureSyntaxScore, Kind: KindNumeric},
		{Name: FeatureFFR, Kind: KindRatio},
	})
}

// DefaultProfile returns the embedded per-feature defaults used whenever
// historical baseline data is insufficient for a feature.
func DefaultProfile(schema Schema) Profile {
	defaults := map[string]Value{
		FeatureGender:         NewStringValue("male"),
		FeatureAge:            NewIntegerValue(62),
		FeatureAnginaClass:    NewIntegerValue(2),
		FeaturePostInfarction: NewBooleanValue(false),
		FeatureMultifocal:     NewBooleanValue(false),
		FeatureDiabetes:       NewBooleanValue(false),
		FeatureHypertension:   NewBooleanValue(true),
		FeatureCholesterol:    NewNumericValue(5.2),
		FeatureBMI:            NewNumericValue(27.4),
		FeatureLVEF:           NewNumericValue(51.0),
		FeatureSyntaxScore:    NewNumericValue(18.0),
		FeatureFFR:            NewNumericValue(0.83),
	}
	return NewProfile(schema, defaults)
}
