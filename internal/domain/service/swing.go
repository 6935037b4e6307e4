package service

import "github.com/AbrarQ/algo-lambda/internal/domain/models"

// SwingDetector finds swing points in a chronological candle series.
type SwingDetector interface {
	Detect(candles []models.Candle, window int) []models.SwingPoint
}

// Annotator attaches indicator values to swing points, reading the full
// chronological series they were detected in.
type Annotator interface {
	Annotate(series []models.Candle, points []models.SwingPoint)
}
