package model

const ContactsCollection = "Contacts"

type Contact struct {
	ID          DocumentID `bson:"_id,omitempty"`
	FullName    string     `bson:"fullname"`
	MobilePhone *string    `bson:"mobilephone,omitempty"`
	Telephone1  *string    `bson:"telephone1,omitempty"`
	Telephone2  *string    `bson:"telephone2,omitempty"`
	Telephone3  *string    `bson:"telephone3,omitempty"`
}

func (c *Contact) RecordID() DocumentID { return c.ID }
func (c *Contact) DisplayName() string  { return c.FullName }

func (c *Contact) Clone() *Contact {
	return &Contact{
		ID:          c.ID,
		FullName:    c.FullName,
		MobilePhone: cloneString(c.MobilePhone),
		Telephone1:  cloneString(c.Telephone1),
		Telephone2:  cloneString(c.Telephone2),
		Telephone3:  cloneString(c.Telephone3),
	}
}

var ContactPhoneFields = []PhoneField[*Contact]{
	{
		Name: "mobilephone",
		Get:  func(c *Contact) *string { return c.MobilePhone },
		Set:  func(c *Contact, v *string) { c.MobilePhone = v },
	},
	{
		Name: "telephone1",
		Get:  func(c *Contact) *string { return c.Telephone1 },
		Set:  func(c *Contact, v *string) { c.Telephone1 = v },
	},
	{
		Name: "telephone2",
		Get:  func(c *Contact) *string { return c.Telephone2 },
		Set:  func(c *Contact, v *string) { c.Telephone2 = v },
	},
	{
		Name: "telephone3",
		Get:  func(c *Contact) *string { return c.Telephone3 },
		Set:  func(c *Contact, v *string) { c.Telephone3 = v },
	},
}

func ContactType(collection string) RecordType[*Contact] {
	if collection == "" {
		collection = ContactsCollection
	}
	return RecordType[*Contact]{
		Name:       "contact",
		Collection: collection,
		NameField:  "fullname",
		Fields:     ContactPhoneFields,
		Clone:      (*Contact).Clone,
	}
}
