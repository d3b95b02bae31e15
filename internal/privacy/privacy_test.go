package privacy

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/immobiligb/immobili-api/internal/models"
)

func TestIsPublic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		attivo    bool
		ufficiale bool
		riservato bool
		want      bool
	}{
		{"active official not reserved", true, true, false, true},
		{"inactive", false, true, false, false},
		{"not official", true, false, false, false},
		{"reserved", true, true, true, false},
		{"all flags down", false, false, false, false},
		{"reserved and inactive", false, true, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := models.Listing{
				IsAttivo:             tt.attivo,
				IsUfficiale:          tt.ufficiale,
				IsRiservatoDirezione: tt.riservato,
			}
			assert.Equal(t, tt.want, IsPublic(l))
		})
	}

	t.Run("random flag combinations", func(t *testing.T) {
		rnd := rand.New(rand.NewSource(42))

		for range 1000 {
			l := models.Listing{
				IsAttivo:             rnd.Intn(2) == 1,
				IsUfficiale:          rnd.Intn(2) == 1,
				IsRiservatoDirezione: rnd.Intn(2) == 1,
			}

			want := l.IsAttivo && l.IsUfficiale && !l.IsRiservatoDirezione
			require.Equal(t, want, IsPublic(l), "flags: %+v", l)
		}
	})
}
