package user

import "github.com/shopspring/decimal"

// User represents a registered user record.
type User struct {
	Name    string          // Name is the full name of the user
	Email   string          // Email is the normalized email address of the user
	Phone   string          // Phone is the contact phone number
	Address string          // Address is the postal address
	Tier    Tier            // Tier controls the registration bonus rate
	Balance decimal.Decimal // Balance is the post-bonus account balance
}
