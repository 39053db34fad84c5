package dto

import "github.com/shopspring/decimal"

// AmountRequest is the body of capture and refund calls. A missing amount
// means the full charge.
type AmountRequest struct {
	Amount *decimal.Decimal `json:"amount,omitempty"`
}

type PaymentStatusResponse struct {
	TransactionID string `json:"transactionId"`
	Status        string `json:"status"`
	RawStatus     string `json:"rawStatus"`
}

type BankAccountDTO struct {
	HolderName        string `json:"holderName"`
	HolderType        string `json:"holderType"`
	HolderDocument    string `json:"holderDocument"`
	Bank              string `json:"bank"`
	BranchNumber      string `json:"branchNumber"`
	BranchCheckDigit  string `json:"branchCheckDigit,omitempty"`
	AccountNumber     string `json:"accountNumber"`
	AccountCheckDigit string `json:"accountCheckDigit"`
	Type              string `json:"type"`
}

type RecipientRequest struct {
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Document    string          `json:"document"`
	Type        string          `json:"type"`
	BankAccount *BankAccountDTO `json:"bankAccount"`
}

type RecipientResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Document    string          `json:"document"`
	Type        string          `json:"type"`
	Status      string          `json:"status"`
	BankAccount *BankAccountDTO `json:"bankAccount,omitempty"`
	CreatedAt   string          `json:"createdAt,omitempty"`
}

type ListRecipientsResponse struct {
	Recipients []RecipientResponse `json:"recipients"`
	Total      int                 `json:"total"`
	Page       int                 `json:"page"`
	Size       int                 `json:"size"`
}
