package user

import "github.com/shopspring/decimal"

var (
	hundred = decimal.NewFromInt(100)
	ten     = decimal.NewFromInt(10)

	normalHighRate = decimal.RequireFromString("0.12")
	normalLowRate  = decimal.RequireFromString("0.08")
	superUserRate  = decimal.RequireFromString("0.20")
)

// ComputeBonus returns the one-time registration credit for the given tier and
// initial balance. Both thresholds are exclusive.
func ComputeBonus(tier Tier, balance decimal.Decimal) decimal.Decimal {
	switch tier {
	case TierNormal:
		if balance.GreaterThan(hundred) {
			return balance.Mul(normalHighRate)
		}
		if balance.GreaterThan(ten) {
			return balance.Mul(normalLowRate)
		}
	case TierSuperUser:
		if balance.GreaterThan(hundred) {
			return balance.Mul(superUserRate)
		}
	case TierPremium:
		if balance.GreaterThan(hundred) {
			return balance
		}
	}
	return decimal.Zero
}

// ApplyBonus adds the registration bonus to u.Balance and returns the bonus.
func ApplyBonus(u *User) decimal.Decimal {
	bonus := ComputeBonus(u.Tier, u.Balance)
	u.Balance = u.Balance.Add(bonus)
	return bonus
}
