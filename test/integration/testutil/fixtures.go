package testutil

import (
	"fmt"

	"phonesanitizer/pkg/model"
)

type ContactBuilder struct {
	c model.Contact
}

func NewContactBuilder() *ContactBuilder {
	return &ContactBuilder{
		c: model.Contact{
			ID:       model.NewDocumentID(),
			FullName: "Test Contact",
		},
	}
}

func (b *ContactBuilder) WithName(name string) *ContactBuilder {
	b.c.FullName = name
	return b
}

func (b *ContactBuilder) WithMobile(phone string) *ContactBuilder {
	b.c.MobilePhone = &phone
	return b
}

func (b *ContactBuilder) WithTelephone1(phone string) *ContactBuilder {
	b.c.Telephone1 = &phone
	return b
}

func (b *ContactBuilder) Build() *model.Contact {
	c := b.c
	return &c
}

type AccountBuilder struct {
	a model.Account
}

func NewAccountBuilder() *AccountBuilder {
	return &AccountBuilder{
		a: model.Account{
			ID:   model.NewDocumentID(),
			Name: "Test Account",
		},
	}
}

func (b *AccountBuilder) WithName(name string) *AccountBuilder {
	b.a.Name = name
	return b
}

func (b *AccountBuilder) WithTelephone1(phone string) *AccountBuilder {
	b.a.Telephone1 = &phone
	return b
}

func (b *AccountBuilder) WithTelephone3(phone string) *AccountBuilder {
	b.a.Telephone3 = &phone
	return b
}

func (b *AccountBuilder) Build() *model.Account {
	a := b.a
	return &a
}

// FormattedContacts returns n contacts whose mobile numbers need sanitizing
func FormattedContacts(n int) []any {
	docs := make([]any, n)
	for i := range docs {
		docs[i] = NewContactBuilder().
			WithName(fmt.Sprintf("Contact %03d", i)).
			WithMobile(fmt.Sprintf("+1 (555) 010-%04d", i)).
			Build()
	}
	return docs
}
