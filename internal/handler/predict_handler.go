package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farmwise/farmwise/internal/model"
	"github.com/farmwise/farmwise/internal/pkg/response"
	"github.com/farmwise/farmwise/internal/pkg/timeutil"
	"github.com/farmwise/farmwise/internal/service"
)

type PredictHandler struct {
	predictions *service.PredictionService
}

func NewPredictHandler(predictions *service.PredictionService) *PredictHandler {
	return &PredictHandler{predictions: predictions}
}

// bindPayload parses the body as an open JSON object; each model has its own
// arity so the codec, not gin, validates the fields.
func bindPayload(c *gin.Context) (map[string]interface{}, bool) {
	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil || payload == nil {
		response.Fail(c, http.StatusBadRequest, "request body must be a JSON object")
		return nil, false
	}
	return payload, true
}

func (h *PredictHandler) PredictCrop(c *gin.Context) {
	payload, ok := bindPayload(c)
	if !ok {
		return
	}
	label, err := h.predictions.PredictCrop(c.Request.Context(), getUserID(c), payload)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommended_crop": label})
}

func (h *PredictHandler) PredictFertilizer(c *gin.Context) {
	payload, ok := bindPayload(c)
	if !ok {
		return
	}
	label, err := h.predictions.PredictFertilizer(c.Request.Context(), getUserID(c), payload)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommended_fertilizer": label})
}

func (h *PredictHandler) PredictYield(c *gin.Context) {
	payload, ok := bindPayload(c)
	if !ok {
		return
	}
	prediction, err := h.predictions.PredictYield(c.Request.Context(), getUserID(c), payload)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"prediction": prediction})
}

func (h *PredictHandler) CropHistory(c *gin.Context) {
	h.history(c, model.CollectionCropPredictions)
}

func (h *PredictHandler) FertilizerHistory(c *gin.Context) {
	h.history(c, model.CollectionFertilizerRecommendations)
}

func (h *PredictHandler) YieldHistory(c *gin.Context) {
	h.history(c, model.CollectionYieldPredictions)
}

func (h *PredictHandler) history(c *gin.Context, collection string) {
	records, err := h.predictions.History(c.Request.Context(), collection, getUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}
	out := make([]map[string]interface{}, 0, len(records))
	for _, rec := range records {
		entry := make(map[string]interface{}, len(rec.Fields)+3)
		for k, v := range rec.Fields {
			entry[k] = v
		}
		entry["_id"] = rec.ID
		entry["userId"] = rec.UserID
		entry["createdAt"] = timeutil.FormatUnix(rec.CreatedAt)
		out = append(out, entry)
	}
	c.JSON(http.StatusOK, out)
}
