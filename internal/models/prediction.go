package models

type PredictionRequest struct {
	Ticker string `json:"ticker" binding:"required"`
}

type PredictionResult struct {
	Status         string  `json:"status"`
	PlotImg        string  `json:"plot_img"`
	PlotImg100DMA  string  `json:"plot_img_100dma"`
	PlotImg200DMA  string  `json:"plot_img_200dma"`
	PlotPrediction string  `json:"plot_prediction"`
	MSE            float64 `json:"mse"`
	RMSE           float64 `json:"rmse"`
	R2             float64 `json:"r2"`
}
