package validators

import "go.mongodb.org/mongo-driver/bson"

// PhoneFieldsValidator accepts any document whose tracked phone fields,
// when present, are strings. Everything else in a CRM record, _id included,
// is left alone.
func PhoneFieldsValidator(nameField string, phoneFields []string) bson.M {
	properties := bson.M{}
	if nameField != "" {
		properties[nameField] = bson.M{"bsonType": []string{"string", "null"}}
	}
	for _, f := range phoneFields {
		properties[f] = bson.M{"bsonType": "string"}
	}

	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType":             "object",
			"additionalProperties": true,
			"properties":           properties,
		},
	}
}
