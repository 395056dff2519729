package model

// Record is a CRM entity whose phone fields can be normalized and written back.
type Record interface {
	RecordID() DocumentID
	DisplayName() string
}

// PhoneField is a get/set pair over one tracked phone attribute of T.
// Name is the attribute's stored (bson) field name.
type PhoneField[T Record] struct {
	Name string
	Get  func(T) *string
	Set  func(T, *string)
}

// Text renders the field for audit output; an absent value renders as "".
func (f PhoneField[T]) Text(r T) string {
	if v := f.Get(r); v != nil {
		return *v
	}
	return ""
}

// RecordType describes one record kind: where it lives and which fields are tracked, in order.
type RecordType[T Record] struct {
	Name       string
	Collection string
	NameField  string
	Fields     []PhoneField[T]
	Clone      func(T) T
}

// FieldNames returns the stored names of the tracked fields, in order.
func (rt RecordType[T]) FieldNames() []string {
	names := make([]string, len(rt.Fields))
	for i, f := range rt.Fields {
		names[i] = f.Name
	}
	return names
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
