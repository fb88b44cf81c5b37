package account

// Opened is the domain event recording the opening of a bank Account.
// It is carried by the Created event that gives life to the Aggregate.
type Opened struct {
	FullName     string `json:"full_name"`
	EmailAddress string `json:"email_address"`
}

// Name implements message.Message.
func (Opened) Name() string { return "AccountOpened" }

// TransactionAppended is the domain event recording a signed amount
// appended as transaction on an Account.
type TransactionAppended struct {
	Amount int64 `json:"amount"`
}

// Name implements message.Message.
func (TransactionAppended) Name() string { return "AccountTransactionAppended" }

// OverdraftLimitSet is the domain event recording a change of the
// Account overdraft limit.
type OverdraftLimitSet struct {
	OverdraftLimit int64 `json:"overdraft_limit"`
}

// Name implements message.Message.
func (OverdraftLimitSet) Name() string { return "AccountOverdraftLimitSet" }

// Closed is the domain event recording the closing of an Account.
type Closed struct{}

// Name implements message.Message.
func (Closed) Name() string { return "AccountClosed" }
