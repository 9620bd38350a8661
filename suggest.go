package main

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	openai "github.com/sashabaranov/go-openai"
)

/* ─── Request / Response types ───────────────────────────────────────── */

// suggestRequest is the request body for POST /api/food-log/suggest.
type suggestRequest struct {
	Description string `json:"description"`
}

// foodSuggestion is the structured nutrition estimate returned by the model.
// Macro values are per one serving_unit so an accepted suggestion maps
// straight onto a createFoodLogRequest. Confidence is 1-5.
type foodSuggestion struct {
	FoodName    string  `json:"food_name"`
	Calories    float64 `json:"calories"`
	ProteinG    float64 `json:"protein_g"`
	CarbsG      float64 `json:"carbs_g"`
	FatG        float64 `json:"fat_g"`
	ServingSize float64 `json:"serving_size"`
	ServingUnit string  `json:"serving_unit"`
	Confidence  int     `json:"confidence"`
}

const foodSystemPrompt = `You are a nutrition assistant. Parse the food description and return a JSON object with:
- "food_name" (string, cleaned up title case)
- "serving_size" (number, quantity the user described)
- "serving_unit" (one of: serving, g, ml, each, cup, slice)
- "calories" (number, per ONE serving_unit)
- "protein_g" (number, per ONE serving_unit)
- "carbs_g" (number, per ONE serving_unit)
- "fat_g" (number, per ONE serving_unit)
- "confidence" (integer 1-5: 5=exact known nutritional data, 3=reasonable estimate, 1=very uncertain)

Always provide your best estimate, even for unfamiliar or vague items. Only return {"error": "unrecognized"} if the input is not food at all.
Return only valid JSON, no explanation.`

/* ─── Handler ────────────────────────────────────────────────────────── */

// suggestFoodEntry handles POST /api/food-log/suggest.
// Accepts a free-text food description and returns a structured nutrition
// estimate from OpenAI's chat completions API in JSON mode. Returns 503 when
// no API key was configured at startup.
func (h *Handler) suggestFoodEntry(c *gin.Context) {
	if h.ai == nil {
		apiError(c, http.StatusServiceUnavailable, "suggestions are not configured")
		return
	}

	var req suggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		apiError(c, http.StatusBadRequest, "description is required")
		return
	}

	resp, err := h.ai.CreateChatCompletion(c.Request.Context(), openai.ChatCompletionRequest{
		Model:       openai.GPT4oMini,
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: foodSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.Description},
		},
	})
	if err != nil {
		log.Printf("[suggest] OpenAI error: %v", err)
		apiError(c, http.StatusBadGateway, "suggestion request failed")
		return
	}
	if len(resp.Choices) == 0 {
		apiError(c, http.StatusBadGateway, "suggestion request failed")
		return
	}
	content := resp.Choices[0].Message.Content

	// The model signals non-food input with {"error": "unrecognized"}.
	var errorResp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal([]byte(content), &errorResp); err != nil {
		log.Printf("[suggest] unparseable model response: %v", err)
		apiError(c, http.StatusBadGateway, "suggestion request failed")
		return
	}
	if errorResp.Error == "unrecognized" {
		c.JSON(http.StatusOK, gin.H{"error": "unrecognized"})
		return
	}

	var suggestion foodSuggestion
	if err := json.Unmarshal([]byte(content), &suggestion); err != nil {
		log.Printf("[suggest] unparseable suggestion JSON: %v", err)
		apiError(c, http.StatusBadGateway, "suggestion request failed")
		return
	}

	// Minimum usable response: a name and some calories.
	if suggestion.FoodName == "" || suggestion.Calories <= 0 {
		c.JSON(http.StatusOK, gin.H{"error": "unrecognized"})
		return
	}
	if suggestion.ServingSize <= 0 {
		suggestion.ServingSize = 1
	}
	if suggestion.ServingUnit == "" {
		suggestion.ServingUnit = "serving"
	}

	c.JSON(http.StatusOK, suggestion)
}
