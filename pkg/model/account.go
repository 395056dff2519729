package model

const AccountsCollection = "Accounts"

type Account struct {
	ID         DocumentID `bson:"_id,omitempty"`
	Name       string     `bson:"name"`
	Telephone1 *string    `bson:"telephone1,omitempty"`
	Telephone2 *string    `bson:"telephone2,omitempty"`
	Telephone3 *string    `bson:"telephone3,omitempty"`
}

func (a *Account) RecordID() DocumentID { return a.ID }
func (a *Account) DisplayName() string  { return a.Name }

func (a *Account) Clone() *Account {
	return &Account{
		ID:         a.ID,
		Name:       a.Name,
		Telephone1: cloneString(a.Telephone1),
		Telephone2: cloneString(a.Telephone2),
		Telephone3: cloneString(a.Telephone3),
	}
}

var AccountPhoneFields = []PhoneField[*Account]{
	{
		Name: "telephone1",
		Get:  func(a *Account) *string { return a.Telephone1 },
		Set:  func(a *Account, v *string) { a.Telephone1 = v },
	},
	{
		Name: "telephone2",
		Get:  func(a *Account) *string { return a.Telephone2 },
		Set:  func(a *Account, v *string) { a.Telephone2 = v },
	},
	{
		Name: "telephone3",
		Get:  func(a *Account) *string { return a.Telephone3 },
		Set:  func(a *Account, v *string) { a.Telephone3 = v },
	},
}

func AccountType(collection string) RecordType[*Account] {
	if collection == "" {
		collection = AccountsCollection
	}
	return RecordType[*Account]{
		Name:       "account",
		Collection: collection,
		NameField:  "name",
		Fields:     AccountPhoneFields,
		Clone:      (*Account).Clone,
	}
}
