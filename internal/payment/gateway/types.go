package gateway

// Wire shapes of the gateway's v5 core API. Only the fields this service
// reads or writes are modelled.

type orderRequest struct {
	Code     string            `json:"code,omitempty"`
	Customer customer          `json:"customer"`
	Items    []item            `json:"items"`
	Payments []payment         `json:"payments"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type customer struct {
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Type         string   `json:"type"`
	Document     string   `json:"document"`
	DocumentType string   `json:"document_type"`
	Phones       phones   `json:"phones"`
	Address      *address `json:"address,omitempty"`
}

type phones struct {
	MobilePhone phone `json:"mobile_phone"`
}

type phone struct {
	CountryCode string `json:"country_code"`
	AreaCode    string `json:"area_code"`
	Number      string `json:"number"`
}

type address struct {
	Line1   string `json:"line_1"`
	Line2   string `json:"line_2,omitempty"`
	ZipCode string `json:"zip_code"`
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}

type item struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
	Quantity    int    `json:"quantity"`
}

type payment struct {
	PaymentMethod string             `json:"payment_method"`
	CreditCard    creditCardPayment  `json:"credit_card"`
	Amount        int64              `json:"amount"`
	Split         []splitInstruction `json:"split,omitempty"`
}

type creditCardPayment struct {
	Installments        int    `json:"installments"`
	StatementDescriptor string `json:"statement_descriptor,omitempty"`
	Card                card   `json:"card"`
}

type card struct {
	Number         string  `json:"number"`
	HolderName     string  `json:"holder_name"`
	ExpMonth       int     `json:"exp_month"`
	ExpYear        int     `json:"exp_year"`
	CVV            string  `json:"cvv"`
	BillingAddress address `json:"billing_address"`
}

type splitInstruction struct {
	Amount      int          `json:"amount"`
	RecipientID string       `json:"recipient_id"`
	Type        string       `json:"type"`
	Options     splitOptions `json:"options"`
}

type splitOptions struct {
	ChargeProcessingFee bool `json:"charge_processing_fee"`
	ChargeRemainderFee  bool `json:"charge_remainder_fee"`
	Liable              bool `json:"liable"`
}

type amountRequest struct {
	Amount *int64 `json:"amount,omitempty"`
}

// orderResponse is deliberately loose: depending on the API version the
// charge arrives as a list, a single object, or not at all.
type orderResponse struct {
	ID              string              `json:"id"`
	Status          string              `json:"status"`
	Charges         []chargeResponse    `json:"charges"`
	Charge          *chargeResponse     `json:"charge"`
	LastTransaction *transactionPayload `json:"last_transaction"`
}

type chargeResponse struct {
	ID              string              `json:"id"`
	Status          string              `json:"status"`
	Amount          int64               `json:"amount"`
	LastTransaction *transactionPayload `json:"last_transaction"`
}

type transactionPayload struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type bankAccount struct {
	HolderName        string `json:"holder_name"`
	HolderType        string `json:"holder_type"`
	HolderDocument    string `json:"holder_document"`
	Bank              string `json:"bank"`
	BranchNumber      string `json:"branch_number"`
	BranchCheckDigit  string `json:"branch_check_digit,omitempty"`
	AccountNumber     string `json:"account_number"`
	AccountCheckDigit string `json:"account_check_digit"`
	Type              string `json:"type"`
}

type recipientPayload struct {
	ID                 string       `json:"id,omitempty"`
	Name               string       `json:"name"`
	Email              string       `json:"email"`
	Document           string       `json:"document"`
	Type               string       `json:"type"`
	Status             string       `json:"status,omitempty"`
	DefaultBankAccount *bankAccount `json:"default_bank_account,omitempty"`
	CreatedAt          string       `json:"created_at,omitempty"`
}

type recipientList struct {
	Data   []recipientPayload `json:"data"`
	Paging struct {
		Total int `json:"total"`
	} `json:"paging"`
}
