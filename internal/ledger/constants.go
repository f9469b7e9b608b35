package ledger

// Ledger entry reasons recorded in the audit trail
const (
	ReasonWager  = "wager"
	ReasonPayout = "wager won"
	ReasonRefund = "refund"
	ReasonGrant  = "grant"
)

// Log operation identifiers
const (
	LogMsgBalanceCalled = "Balance called"
	LogMsgCreditCalled  = "Credit called"
	LogMsgDebitCalled   = "Debit called"
)

// Error context messages for wrapped errors
const (
	ErrContextFailedToGetBalance = "failed to get balance"
	ErrContextFailedToCredit     = "failed to credit balance"
	ErrContextFailedToDebit      = "failed to debit balance"
)
