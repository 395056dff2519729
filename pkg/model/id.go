package model

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DocumentID is a stored _id of any BSON type. Imported CRM data is keyed by
// strings or binary GUIDs as often as by ObjectIDs, so the raw value is kept and
// written back as-is. DocumentID is comparable and can be used as a map key.
type DocumentID struct {
	kind bsontype.Type
	data string
}

func NewDocumentID() DocumentID {
	return ObjectIDOf(primitive.NewObjectID())
}

func ObjectIDOf(oid primitive.ObjectID) DocumentID {
	return DocumentID{kind: bson.TypeObjectID, data: string(oid[:])}
}

func StringID(s string) DocumentID {
	kind, data, _ := bson.MarshalValue(s)
	return DocumentID{kind: kind, data: string(data)}
}

func (id DocumentID) IsZero() bool {
	return id.kind == 0 || id.kind == bson.TypeNull || id.kind == bson.TypeUndefined
}

func (id DocumentID) String() string {
	if id.IsZero() {
		return ""
	}
	rv := bson.RawValue{Type: id.kind, Value: []byte(id.data)}
	if oid, ok := rv.ObjectIDOK(); ok {
		return oid.Hex()
	}
	if s, ok := rv.StringValueOK(); ok {
		return s
	}
	return rv.String()
}

func (id DocumentID) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if id.IsZero() {
		return bson.TypeNull, nil, nil
	}
	return id.kind, []byte(id.data), nil
}

func (id *DocumentID) UnmarshalBSONValue(kind bsontype.Type, data []byte) error {
	if kind == bson.TypeNull || kind == bson.TypeUndefined {
		*id = DocumentID{}
		return nil
	}
	*id = DocumentID{kind: kind, data: string(data)}
	return nil
}
