package analytics

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nehalnetha/budgetbuddy-backend/internal/domain"
)

// ErrInsufficientData is returned when a forecast is requested over fewer
// than two actual monthly totals.
var ErrInsufficientData = errors.New("forecast requires at least two monthly totals")

// MonthTotal is one observed monthly spending total.
type MonthTotal struct {
	Month string
	Total decimal.Decimal
}

// ForecastPoint is one entry of a forecast window: either an actual monthly
// total or a predicted one, never both.
type ForecastPoint struct {
	Month     string
	Actual    *decimal.Decimal
	Predicted *decimal.Decimal
}

// ForecastNext predicts the next monthly total by first-difference
// extrapolation: the mean of consecutive differences is added to the last
// observed total. This is not a regression; the prediction tracks the last
// observed value and recent volatility directly and carries no seasonality.
func ForecastNext(series []MonthTotal) (decimal.Decimal, error) {
	if len(series) < 2 {
		return decimal.Zero, ErrInsufficientData
	}

	deltaSum := decimal.Zero
	for i := 1; i < len(series); i++ {
		deltaSum = deltaSum.Add(series[i].Total.Sub(series[i-1].Total))
	}
	averageDelta := deltaSum.Div(decimal.NewFromInt(int64(len(series) - 1)))
	return series[len(series)-1].Total.Add(averageDelta), nil
}

// ForecastWindow builds the chart window of pastMonths actual totals
// followed by futureMonths predicted ones, ending the actual run at the
// month containing referenceDate. Every predicted point carries the same
// one-step-ahead value; the extrapolation is not iterated. When the actuals
// are insufficient the predicted points are zero, which callers must treat
// as "insufficient data" rather than a real forecast.
func ForecastWindow(expenses []domain.Transaction, referenceDate time.Time, pastMonths, futureMonths int) ([]ForecastPoint, error) {
	if err := validateAmounts(expenses); err != nil {
		return nil, err
	}

	actuals := make([]MonthTotal, 0, pastMonths)
	points := make([]ForecastPoint, 0, pastMonths+futureMonths)
	for i := pastMonths - 1; i >= 0; i-- {
		month := monthAdd(referenceDate, -i)
		total := monthTotalFor(expenses, "", month)
		actuals = append(actuals, MonthTotal{Month: month.Format("Jan"), Total: total})
		points = append(points, ForecastPoint{Month: month.Format("Jan"), Actual: &total})
	}

	predicted, err := ForecastNext(actuals)
	if err != nil {
		if !errors.Is(err, ErrInsufficientData) {
			return nil, err
		}
		predicted = decimal.Zero
	}
	for i := 1; i <= futureMonths; i++ {
		month := monthAdd(referenceDate, i)
		p := predicted
		points = append(points, ForecastPoint{Month: month.Format("Jan"), Predicted: &p})
	}
	return points, nil
}
