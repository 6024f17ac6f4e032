package validators

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-time-sync/models"
)

func int64Ptr(v int64) *int64 { return &v }

// ─────────────────────────────────────────────
// Validate: supported types
// ─────────────────────────────────────────────

func TestEntityValidator_Validate(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		obj     any
		fields  []string
		wantErr error
	}{
		{"valid workspace", models.Workspace{Name: "Home"}, nil, nil},
		{"workspace without name", models.Workspace{Name: "  "}, nil, ErrEmptyName},
		{"name too long", &models.Tag{WorkspaceID: 1, Name: strings.Repeat("x", MaxNameLength+1)}, nil, ErrNameTooLong},
		{"tag with placeholder workspace", models.Tag{WorkspaceID: -1, Name: "x"}, nil, ErrPlaceholderReference},
		{"valid project", models.Project{WorkspaceID: 1, Name: "Site", Color: "#06aaf5"}, nil, nil},
		{"project without color", models.Project{WorkspaceID: 1, Name: "Site"}, nil, nil},
		{"project with bad color", models.Project{WorkspaceID: 1, Name: "Site", Color: "red"}, nil, ErrInvalidColor},
		{"project with placeholder client", models.Project{WorkspaceID: 1, ClientID: int64Ptr(-2), Name: "Site"}, nil, ErrPlaceholderReference},
		{"task with placeholder project", models.Task{WorkspaceID: 1, ProjectID: -5, Name: "Copy"}, nil, ErrPlaceholderReference},
		{"valid entry", models.TimeEntry{WorkspaceID: 1, Start: start, Duration: int64Ptr(60)}, nil, nil},
		{"running entry", &models.TimeEntry{WorkspaceID: 1, Start: start}, nil, nil},
		{"entry without start", models.TimeEntry{WorkspaceID: 1}, nil, ErrMissingStart},
		{"entry with negative duration", models.TimeEntry{WorkspaceID: 1, Start: start, Duration: int64Ptr(-1)}, nil, ErrNegativeDuration},
		{"entry with placeholder tag", models.TimeEntry{WorkspaceID: 1, Start: start, TagIDs: []int64{4, -1}}, nil, ErrPlaceholderReference},
		{"valid user", models.User{Email: "a@b.c", BeginningOfWeek: 1}, nil, nil},
		{"user with bad email", models.User{Email: "nobody"}, nil, ErrInvalidEmail},
		{"user with bad weekday", models.User{Email: "a@b.c", BeginningOfWeek: 7}, nil, ErrInvalidWeekday},
		{"valid preferences", models.Preferences{DurationFormat: "decimal"}, nil, nil},
		{"unknown duration format", models.Preferences{DurationFormat: "roman"}, nil, ErrInvalidFormat},
		{"id required", models.Client{SyncMeta: models.SyncMeta{ID: -1}, WorkspaceID: 1, Name: "x"}, []string{FieldID}, ErrInvalidID},
		{"id present", models.Client{SyncMeta: models.SyncMeta{ID: 7}, WorkspaceID: 1, Name: "x"}, []string{FieldID}, nil},
		{"scoped check skips others", models.Workspace{}, []string{FieldColor}, nil},
	}

	v := NewEntityValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(context.Background(), tt.obj, tt.fields...)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// ─────────────────────────────────────────────
// Validate: misuse
// ─────────────────────────────────────────────

func TestEntityValidator_UnsupportedType(t *testing.T) {
	err := NewEntityValidator().Validate(context.Background(), "workspace")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestEntityValidator_UnknownField(t *testing.T) {
	err := NewEntityValidator().Validate(context.Background(), models.Workspace{Name: "x"}, "owner")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestEntityValidator_JoinsErrors(t *testing.T) {
	err := NewEntityValidator().Validate(context.Background(), models.Project{WorkspaceID: -1, Color: "blue"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPlaceholderReference)
	assert.ErrorIs(t, err, ErrEmptyName)
	assert.ErrorIs(t, err, ErrInvalidColor)
}
