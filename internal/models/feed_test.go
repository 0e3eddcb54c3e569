package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatValue_Unmarshal(t *testing.T) {
	tests := []struct {
		name string
		json string
		want int
	}{
		{"number", `{"v": 27}`, 27},
		{"numeric string", `{"v": "27"}`, 27},
		{"float string", `{"v": "27.0"}`, 27},
		{"null", `{"v": null}`, 0},
		{"empty string", `{"v": ""}`, 0},
		{"garbage", `{"v": "DNP"}`, 0},
		{"missing", `{}`, 0},
		{"negative", `{"v": -3}`, -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc struct {
				V StatValue `json:"v"`
			}
			require.NoError(t, json.Unmarshal([]byte(tt.json), &doc))
			assert.Equal(t, tt.want, doc.V.Int())
		})
	}
}

func TestFlexString_Unmarshal(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{"string", `{"v": "12"}`, "12"},
		{"bare number", `{"v": 12}`, "12"},
		{"null", `{"v": null}`, ""},
		{"missing", `{}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc struct {
				V FlexString `json:"v"`
			}
			require.NoError(t, json.Unmarshal([]byte(tt.json), &doc))
			assert.Equal(t, tt.want, doc.V.String())
		})
	}
}
