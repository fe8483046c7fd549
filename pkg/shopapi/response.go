package shopapi

import (
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
)

var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Methods": "GET, POST, OPTIONS",
	"Access-Control-Allow-Headers": "Content-Type",
}

func headers(extra map[string]string) map[string]string {
	h := make(map[string]string, len(corsHeaders)+len(extra)+1)
	for k, v := range corsHeaders {
		h[k] = v
	}
	h["Content-Type"] = "application/json"
	for k, v := range extra {
		h[k] = v
	}
	return h
}

func jsonResponse(status int, v any, extra map[string]string) events.APIGatewayV2HTTPResponse {
	body, err := json.Marshal(v)
	if err != nil {
		zap.S().Errorf("Error marshaling response body: %v", err)
		return events.APIGatewayV2HTTPResponse{
			StatusCode: http.StatusInternalServerError,
			Headers:    headers(nil),
			Body:       `{"error":"Failed to format response"}`,
		}
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    headers(extra),
		Body:       string(body),
	}
}

func errorResponse(status int, msg string) events.APIGatewayV2HTTPResponse {
	return jsonResponse(status, map[string]string{"error": msg}, nil)
}
