package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutriscan/nutriscan/internal/config"
	"github.com/nutriscan/nutriscan/internal/logging"
)

func newTestApp(t *testing.T, handler http.Handler) *App {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	cfg := &config.Config{
		APIBaseURL:    ts.URL,
		HTTPTimeout:   5 * time.Second,
		RetryAttempts: 0,
		SessionFile:   filepath.Join(t.TempDir(), "session.json"),
	}
	return NewApp(cfg, logging.Nop())
}

func run(t *testing.T, app *App, stdin io.Reader, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	if stdin != nil {
		root.SetIn(stdin)
	}
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestLoginStoresSessionAndReportsUser(t *testing.T) {
	app := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/google", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "tok-google", body["access_token"])
		_, _ = w.Write([]byte(`{"success":true,"data":{"token":"jwt-1","user":{"id":5,"name":"Alice","email":"alice@example.com"}}}`))
	}))

	out, err := run(t, app, nil, "login", "google", "--token", "tok-google")
	require.NoError(t, err)
	assert.Contains(t, out, "signed in as Alice <alice@example.com>")
	assert.True(t, app.Session.IsAuthenticated())
	assert.Equal(t, "jwt-1", app.Session.CurrentToken())
}

func TestLoginPromptsForTokenOnPipedStdin(t *testing.T) {
	app := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		require.Equal(t, "piped-token", body["access_token"])
		_, _ = w.Write([]byte(`{"success":true,"data":{"token":"jwt-2","user":{"id":5,"name":"A","email":"a@b.c"}}}`))
	}))

	_, err := run(t, app, strings.NewReader("piped-token\n"), "login", "google")
	require.NoError(t, err)
	assert.True(t, app.Session.IsAuthenticated())
}

func TestLoginRejectsUnknownProvider(t *testing.T) {
	app := newTestApp(t, http.NotFoundHandler())
	_, err := run(t, app, nil, "login", "facebook", "--token", "x")
	assert.ErrorContains(t, err, "unknown provider")
}

func TestWhoamiWithoutSession(t *testing.T) {
	app := newTestApp(t, http.NotFoundHandler())
	_, err := run(t, app, nil, "whoami")
	assert.ErrorContains(t, err, "not signed in")
}

func TestJournalRendersDayAndCachesRepeats(t *testing.T) {
	var hits int32
	app := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/journal", r.URL.Path)
		require.Equal(t, "2026-08-30", r.URL.Query().Get("date"))
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte(`{
			"success":true,"date":"2026-08-30",
			"meals":[{"id":3,"meal_type":"lunch","total_calories":640,"foods_count":2}],
			"consumed":{"total_calories":640,"total_meals":1},
			"goal_status":{"calories":"not_reached","proteins":"not_reached","carbs":"not_reached","fat":"not_reached","overall":"not_reached"}
		}`))
	}))

	out, err := run(t, app, nil, "journal", "--date", "2026-08-30")
	require.NoError(t, err)
	assert.Contains(t, out, "journal for 2026-08-30")
	assert.Contains(t, out, "consumed: 640 kcal over 1 meals")

	_, err = run(t, app, nil, "journal", "--date", "2026-08-30")
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&hits), "second invocation must come from cache")
}

func TestMealsEditRescalesRemovesAndSaves(t *testing.T) {
	var putBody []byte
	app := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			require.Equal(t, "/meals/11", r.URL.Path)
			_, _ = w.Write([]byte(`{"success":true,"data":{
				"id":11,
				"foods_detected":[
					{"name":"chicken","quantity_value":150,"quantity_unit":"g","estimated_weight_grams":150,
					 "nutrition":{"energy_kcal":248,"proteins":46.5,"fat":5.4}},
					{"name":"rice","quantity_value":200,"quantity_unit":"g","estimated_weight_grams":200,
					 "nutrition":{"energy_kcal":260,"proteins":5.4,"carbohydrates":56.2}}
				]
			}}`))
		case http.MethodPut:
			putBody, _ = io.ReadAll(r.Body)
			_, _ = w.Write([]byte(`{"success":true,"data":{"id":11,"meal_type":"lunch","total_calories":165,"foods_count":1,"foods_detected":[]}}`))
		default:
			t.Fatalf("unexpected %s", r.Method)
		}
	}))

	_, err := run(t, app, nil, "meals", "edit", "11",
		"--quantity", "0=100", "--remove", "1", "--type", "lunch")
	require.NoError(t, err)

	var payload struct {
		MealType string `json:"meal_type"`
		Foods    []struct {
			Name      string  `json:"name"`
			Quantity  float64 `json:"quantity_value"`
			Nutrition struct {
				EnergyKcal float64 `json:"energy_kcal"`
				Proteins   float64 `json:"proteins"`
				Fat        float64 `json:"fat"`
			} `json:"nutrition"`
		} `json:"foods_detected"`
	}
	require.NoError(t, json.Unmarshal(putBody, &payload))

	assert.Equal(t, "lunch", payload.MealType)
	require.Len(t, payload.Foods, 1)
	assert.Equal(t, "chicken", payload.Foods[0].Name)
	assert.Equal(t, float64(100), payload.Foods[0].Quantity)
	assert.Equal(t, float64(165), payload.Foods[0].Nutrition.EnergyKcal)
	assert.Equal(t, 31.0, payload.Foods[0].Nutrition.Proteins)
	assert.Equal(t, 3.6, payload.Foods[0].Nutrition.Fat)
}

func TestMealsEditWithoutTypeFails(t *testing.T) {
	app := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method, "an uncommittable edit must never reach PUT")
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":11,"meal_type":null,"foods_detected":[]}}`))
	}))

	_, err := run(t, app, nil, "meals", "edit", "11", "--notes", "x")
	assert.ErrorContains(t, err, "meal type is required")
}

func TestProductScanUnknownBarcode(t *testing.T) {
	app := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"message":"Produit non trouvé"}`))
	}))

	_, err := run(t, app, nil, "product", "scan", "0000000000000")
	assert.ErrorContains(t, err, "no product found for barcode")
}

func TestScanSessionLooksUpBarcodesFromInput(t *testing.T) {
	app := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/products/scan", r.URL.Path)
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":1,"barcode":"` + body["barcode"] + `","product_name":"Nutella","brands":"Ferrero"}}`))
	}))

	out, err := run(t, app, strings.NewReader("3017620422003\n"), "scan")
	require.NoError(t, err)
	assert.Contains(t, out, "Nutella (Ferrero)")
}

func TestProfileCreateRequiresAllOnboardingFlags(t *testing.T) {
	app := newTestApp(t, http.NotFoundHandler())
	_, err := run(t, app, nil, "profile", "create", "--gender", "male")
	assert.Error(t, err)
}
