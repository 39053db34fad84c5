package domain

// PaymentOutcome is the normalized result of one gateway call.
type PaymentOutcome struct {
	ID        string
	Status    string
	RawStatus string
}

type CardData struct {
	Number       string
	HolderName   string
	ExpMonth     int
	ExpYear      int
	CVV          string
	Document     string
	Phone        string
	Installments int
	CustomerType string
}

type Address struct {
	Line1   string
	Line2   string
	ZipCode string
	City    string
	State   string
	Country string
}

type SplitRule struct {
	RecipientID         string
	Percentage          int
	ChargeProcessingFee bool
	ChargeRemainderFee  bool
	Liable              bool
}

const (
	CustomerTypeIndividual  = "individual"
	CustomerTypeCorporation = "corporation"
)

type Customer struct {
	Name     string
	Email    string
	Country  string
	Type     string
	Document string
	Phone    string
}

type LineItem struct {
	ID             string
	Title          string
	UnitPriceCents int64
	Quantity       int
}

// PaymentRequest is everything the gateway needs to charge one order.
type PaymentRequest struct {
	Code           string
	AmountCents    int64
	Card           CardData
	Customer       Customer
	BillingAddress Address
	Items          []LineItem
	Metadata       map[string]string
	Split          []SplitRule
}

type BankAccount struct {
	HolderName        string
	HolderType        string
	HolderDocument    string
	Bank              string
	BranchNumber      string
	BranchCheckDigit  string
	AccountNumber     string
	AccountCheckDigit string
	Type              string
}

// Recipient is a payout destination registered at the gateway.
type Recipient struct {
	ID          string
	Name        string
	Email       string
	Document    string
	Type        string
	Status      string
	BankAccount *BankAccount
	CreatedAt   string
}
