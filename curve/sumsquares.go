package curve

import "math/big"

// SumOfSquaresDivisor flattens the curve: unit i costs i^2 * Scale / 16000.
const SumOfSquaresDivisor = 16000

// SumOfSquares prices unit i (zero based) at i^2 / SumOfSquaresDivisor whole
// units. The first unit is free.
type SumOfSquares struct{}

// Name returns NameSumOfSquares.
func (SumOfSquares) Name() string { return NameSumOfSquares }

// Price returns (Σ_{i=supply}^{supply+amount-1} i²) * Scale / SumOfSquaresDivisor,
// using the closed form sum(n) = (n-1)·n·(2(n-1)+1)/6 for Σ_{i<n} i².
func (SumOfSquares) Price(supply, amount uint64) (*big.Int, error) {
	if amount == 0 {
		return new(big.Int), nil
	}
	s := new(big.Int).SetUint64(supply)
	end := new(big.Int).Add(s, new(big.Int).SetUint64(amount))

	summation := new(big.Int).Sub(squareSum(end), squareSum(s))
	price := summation.Mul(summation, Scale)
	return price.Quo(price, big.NewInt(SumOfSquaresDivisor)), nil
}

// squareSum returns Σ_{i=0}^{n-1} i², zero for n == 0.
func squareSum(n *big.Int) *big.Int {
	if n.Sign() == 0 {
		return new(big.Int)
	}
	one := big.NewInt(1)
	m := new(big.Int).Sub(n, one)
	twoM1 := new(big.Int).Lsh(m, 1)
	twoM1.Add(twoM1, one)

	out := new(big.Int).Mul(m, n)
	out.Mul(out, twoM1)
	return out.Quo(out, big.NewInt(6))
}
