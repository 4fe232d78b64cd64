package estimator

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEstimate(t *testing.T) {
	testCases := []struct {
		name    string
		text    string
		want    *Estimate
		wantErr error
	}{
		{
			name: "plain json",
			text: `{"food_name": "Chicken Salad", "calories": 450, "protein": 38}`,
			want: &Estimate{FoodName: "Chicken Salad", Calories: 450, Protein: 38},
		},
		{
			name: "json fence",
			text: "```json\n{\"food_name\": \"Oatmeal\", \"calories\": 300, \"protein\": 10}\n```",
			want: &Estimate{FoodName: "Oatmeal", Calories: 300, Protein: 10},
		},
		{
			name: "bare fence with whitespace",
			text: "  ```\n{\"food_name\": \" Steak \", \"calories\": 700.5, \"protein\": 62}\n```  \n",
			want: &Estimate{FoodName: "Steak", Calories: 700.5, Protein: 62},
		},
		{
			name:    "prose",
			text:    "I think this is a burger with about 800 calories.",
			wantErr: ErrMalformedEstimate,
		},
		{
			name:    "empty",
			text:    "```json\n```",
			wantErr: ErrMalformedEstimate,
		},
		{
			name:    "missing protein",
			text:    `{"food_name": "Rice", "calories": 200}`,
			wantErr: ErrMalformedEstimate,
		},
		{
			name:    "negative calories",
			text:    `{"food_name": "Rice", "calories": -5, "protein": 4}`,
			wantErr: ErrMalformedEstimate,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseEstimate(tc.text)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGeminiClient_EstimateMeal(t *testing.T) {
	var gotReq geminiRequest
	var gotPath, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &gotReq))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"` +
			"```json\\n{\\\"food_name\\\": \\\"Eggs\\\", \\\"calories\\\": 210, \\\"protein\\\": 18}\\n```" +
			`"}]}}]}`))
	}))
	defer server.Close()

	client := NewGeminiClient("secret-key", server.URL, "test-model", server.Client())
	estimate, err := client.EstimateMeal(t.Context(), []byte("fake-jpeg"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, &Estimate{FoodName: "Eggs", Calories: 210, Protein: 18}, estimate)

	assert.Equal(t, "/models/test-model:generateContent", gotPath)
	assert.Equal(t, "secret-key", gotKey)
	require.Len(t, gotReq.Contents, 1)
	require.Len(t, gotReq.Contents[0].Parts, 2)
	assert.Contains(t, gotReq.Contents[0].Parts[0].Text, "food_name")
	require.NotNil(t, gotReq.Contents[0].Parts[1].InlineData)
	assert.Equal(t, "image/jpeg", gotReq.Contents[0].Parts[1].InlineData.MimeType)
	assert.Equal(t, "ZmFrZS1qcGVn", gotReq.Contents[0].Parts[1].InlineData.Data)
}

func TestGeminiClient_EstimateMeal_Errors(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		switch r.URL.Query().Get("key") {
		case "broken":
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error": "boom"}`))
		case "chatty":
			_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"looks tasty"}]}}]}`))
		default:
			_, _ = w.Write([]byte(`{"candidates":[]}`))
		}
	}))
	defer server.Close()

	t.Run("no api key", func(t *testing.T) {
		client := NewGeminiClient("", server.URL, "", server.Client())
		assert.False(t, client.Available())
		_, err := client.EstimateMeal(t.Context(), []byte("img"), "image/png")
		assert.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("invalid image", func(t *testing.T) {
		client := NewGeminiClient("key", server.URL, "", server.Client())
		_, err := client.EstimateMeal(t.Context(), nil, "image/png")
		assert.ErrorIs(t, err, ErrInvalidImage)
		_, err = client.EstimateMeal(t.Context(), []byte("gif"), "image/gif")
		assert.ErrorIs(t, err, ErrInvalidImage)
	})

	t.Run("mime type parameters are ignored", func(t *testing.T) {
		client := NewGeminiClient("empty", server.URL, "", server.Client())
		_, err := client.EstimateMeal(t.Context(), []byte("img"), "Image/PNG; charset=binary")
		assert.ErrorIs(t, err, ErrMalformedEstimate)
	})

	t.Run("upstream failure", func(t *testing.T) {
		client := NewGeminiClient("broken", server.URL, "", server.Client())
		_, err := client.EstimateMeal(t.Context(), []byte("img"), "image/png")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrMalformedEstimate)
		assert.True(t, strings.Contains(err.Error(), "status 500"))
	})

	t.Run("not json", func(t *testing.T) {
		client := NewGeminiClient("chatty", server.URL, "", server.Client())
		_, err := client.EstimateMeal(t.Context(), []byte("img"), "image/png")
		assert.ErrorIs(t, err, ErrMalformedEstimate)
	})

	assert.Equal(t, 3, calls)
}
