package sanitizer

const (
	MinMonthlyPrice = 1

	MaxMonthlyPrice = 1_000_000
)

func ClampMonthlyPrice(price int64) int64 {
	if price < MinMonthlyPrice {
		return MinMonthlyPrice
	}
	if price > MaxMonthlyPrice {
		return MaxMonthlyPrice
	}
	return price
}
