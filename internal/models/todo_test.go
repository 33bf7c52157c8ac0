package models

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestCreateTodoRequest_Validate(t *testing.T) {
	tests := []struct {
		name      string
		title     *string
		wantTitle string
		wantField string
	}{
		{"valid title", strPtr("Buy groceries"), "Buy groceries", ""},
		{"title is trimmed", strPtr("  Walk the dog \n"), "Walk the dog", ""},
		{"missing title", nil, "", "required"},
		{"empty title", strPtr(""), "", "required"},
		{"whitespace only", strPtr(" \t "), "", "required"},
		{"too long", strPtr(strings.Repeat("a", TitleMaxLength+1)), "", "max:255"},
		{"max length multibyte", strPtr(strings.Repeat("あ", TitleMaxLength)), strings.Repeat("あ", TitleMaxLength), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, err := CreateTodoRequest{Title: tt.title}.Validate()
			if tt.wantField == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.wantTitle, title)
				return
			}
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.wantField, vErr.Fields["title"])
		})
	}
}

func TestUpdateTodoRequest_Validate(t *testing.T) {
	done := true
	req := UpdateTodoRequest{Completed: &done}
	require.NoError(t, req.Validate())
	assert.Nil(t, req.Title)

	req = UpdateTodoRequest{Title: strPtr("  Renamed  ")}
	require.NoError(t, req.Validate())
	assert.Equal(t, "Renamed", *req.Title)

	req = UpdateTodoRequest{Title: strPtr("   ")}
	err := req.Validate()
	require.Error(t, err)
	assert.Equal(t, "validation failed: title: required", err.Error())
}

func TestSortForListing(t *testing.T) {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c := &Todo{ID: 1, Title: "C", Completed: true, CreatedAt: base}
	d := &Todo{ID: 2, Title: "D", CreatedAt: base.Add(time.Second)}
	e := &Todo{ID: 3, Title: "E", CreatedAt: base.Add(2 * time.Second)}
	f := &Todo{ID: 4, Title: "F", CreatedAt: base.Add(2 * time.Second)}
	g := &Todo{ID: 5, Title: "G", Completed: true, CreatedAt: base.Add(3 * time.Second)}

	todos := []*Todo{c, d, e, f, g}
	SortForListing(todos)

	var titles []string
	for _, td := range todos {
		titles = append(titles, td.Title)
	}
	// E と F は同時刻なので挿入順を保持する
	assert.Equal(t, []string{"E", "F", "D", "G", "C"}, titles)
}

// assertListingOrder は未完了が先、各グループ内は作成日時の降順、同時刻は入力順 (ID昇順) であることを確認します。
func assertListingOrder(t *testing.T, todos []*Todo) {
	t.Helper()
	for i := 1; i < len(todos); i++ {
		a, b := todos[i-1], todos[i]
		if a.Completed != b.Completed {
			assert.False(t, a.Completed, "completed todo %d listed before pending todo %d", a.ID, b.ID)
			continue
		}
		assert.False(t, a.CreatedAt.Before(b.CreatedAt), "todo %d is older than todo %d", a.ID, b.ID)
		if a.CreatedAt.Equal(b.CreatedAt) {
			assert.Less(t, a.ID, b.ID, "equal timestamps must keep input order")
		}
	}
}

func TestSortForListing_RandomSets(t *testing.T) {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	for seed := int64(1); seed <= 200; seed++ {
		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			rng := rand.New(rand.NewSource(seed))
			n := rng.Intn(25)

			todos := make([]*Todo, n)
			for i := range todos {
				// 秒の幅を狭くして同時刻を多く発生させる
				todos[i] = &Todo{
					ID:        int64(i + 1),
					Title:     fmt.Sprintf("todo-%d", i+1),
					Completed: rng.Intn(2) == 0,
					CreatedAt: base.Add(time.Duration(rng.Intn(6)) * time.Second),
				}
			}

			sorted := append([]*Todo(nil), todos...)
			SortForListing(sorted)

			require.Len(t, sorted, n)
			assert.ElementsMatch(t, todos, sorted)
			assertListingOrder(t, sorted)

			pending := 0
			for _, td := range todos {
				if !td.Completed {
					pending++
				}
			}
			for i, td := range sorted {
				assert.Equal(t, i >= pending, td.Completed)
			}
		})
	}
}
