package domain

import "math"

// ServiceChargeBasisPoints is the gateway fee applied to wallet recharges:
// a 2% processing fee plus 18% GST on the fee.
const ServiceChargeBasisPoints = 236

// ServiceChargeBreakdown computes what a customer must pay the gateway for
// a given wallet top-up. All arithmetic happens in integer paise so that
// walletAmount + serviceCharge == grossAmount holds exactly to the cent.
func ServiceChargeBreakdown(walletAmount float64) (grossAmount, serviceCharge float64) {
	walletPaise := int64(math.Round(walletAmount * 100))
	chargePaise := (walletPaise*ServiceChargeBasisPoints + 9999) / 10000
	return float64(walletPaise+chargePaise) / 100, float64(chargePaise) / 100
}
