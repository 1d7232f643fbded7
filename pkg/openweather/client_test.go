package openweather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestGetCurrent tests current-weather retrieval.
func TestGetCurrent(t *testing.T) {
	t.Run("Successful request", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("lat") != "40.6413" {
				t.Errorf("Expected lat 40.6413, got %s", q.Get("lat"))
			}
			if q.Get("units") != "imperial" {
				t.Errorf("Expected imperial units, got %s", q.Get("units"))
			}
			if q.Get("appid") != "owm-key" {
				t.Errorf("Expected appid owm-key, got %s", q.Get("appid"))
			}

			w.Write([]byte(`{
				"weather": [{"main": "Clouds", "description": "broken clouds"}],
				"main": {"temp": 71.6}
			}`))
		}))
		defer server.Close()

		client := NewClient(Config{APIKey: "owm-key", BaseURL: server.URL})
		wx, err := client.GetCurrent(context.Background(), 40.6413, -73.7781)

		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if wx.Condition != "Clouds" {
			t.Errorf("Expected condition Clouds, got %s", wx.Condition)
		}
		if wx.Description != "broken clouds" {
			t.Errorf("Expected broken clouds, got %s", wx.Description)
		}
		if wx.TemperatureF != 72 {
			t.Errorf("Expected 72F, got %d", wx.TemperatureF)
		}
	})

	t.Run("API error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"cod": 401, "message": "Invalid API key"}`))
		}))
		defer server.Close()

		client := NewClient(Config{APIKey: "bad", BaseURL: server.URL})
		if _, err := client.GetCurrent(context.Background(), 0, 0); err == nil {
			t.Error("Expected error for 401 response")
		}
	})

	t.Run("Empty conditions array", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"weather": [], "main": {"temp": 50}}`))
		}))
		defer server.Close()

		client := NewClient(Config{APIKey: "owm-key", BaseURL: server.URL})
		if _, err := client.GetCurrent(context.Background(), 0, 0); err == nil {
			t.Error("Expected error for empty conditions")
		}
	})

	t.Run("Malformed response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}))
		defer server.Close()

		client := NewClient(Config{APIKey: "owm-key", BaseURL: server.URL})
		if _, err := client.GetCurrent(context.Background(), 0, 0); err == nil {
			t.Error("Expected error for malformed response")
		}
	})
}
