package memory

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/geocoder89/meetuphub/internal/domain/file"
	"github.com/geocoder89/meetuphub/internal/domain/meetup"
	"github.com/geocoder89/meetuphub/internal/domain/user"
)

func TestMeetupsRepo_ListPagination(t *testing.T) {
	ctx := context.Background()
	r := NewMeetupsRepo()
	base := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 12; i++ {
		_, _ = r.Create(ctx, meetup.Meetup{UserID: 1, Title: "m", Date: base.Add(time.Duration(i) * time.Minute)})
	}

	first, total, err := r.List(ctx, meetup.ListMeetupsFilter{Limit: 10, Offset: 0})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 12 || len(first) != 10 {
		t.Fatalf("first page: got %d items, total %d", len(first), total)
	}

	second, _, _ := r.List(ctx, meetup.ListMeetupsFilter{Limit: 10, Offset: 10})
	if len(second) != 2 {
		t.Fatalf("second page: got %d items, want 2", len(second))
	}

	if !second[0].Date.After(first[9].Date) {
		t.Fatal("pages are not ordered by date")
	}

	empty, _, _ := r.List(ctx, meetup.ListMeetupsFilter{Limit: 10, Offset: 20})
	if len(empty) != 0 {
		t.Fatalf("page past the end returned %d items", len(empty))
	}
}

func TestMeetupsRepo_ListJoinsOrganizer(t *testing.T) {
	ctx := context.Background()
	r := NewMeetupsRepo()
	r.AddUser(user.User{ID: 7, Name: "Ada", Email: "ada@example.com"})

	_, _ = r.Create(ctx, meetup.Meetup{UserID: 7, Title: "m", Date: time.Now()})

	items, _, _ := r.List(ctx, meetup.ListMeetupsFilter{Limit: 10})
	if len(items) != 1 || items[0].Organizer == nil || items[0].Organizer.Name != "Ada" {
		t.Fatalf("organizer not joined: %+v", items)
	}
}

func TestMeetupsRepo_ListByOwnerJoinsBanner(t *testing.T) {
	ctx := context.Background()
	r := NewMeetupsRepo()
	r.AddFile(file.File{ID: 3, Name: "banner.png", Path: "banners/abc.png"})
	fileID := int64(3)

	_, _ = r.Create(ctx, meetup.Meetup{UserID: 1, Title: "mine", FileID: &fileID, Date: time.Now()})
	_, _ = r.Create(ctx, meetup.Meetup{UserID: 2, Title: "theirs", Date: time.Now()})

	items, err := r.ListByOwner(ctx, 1)
	if err != nil {
		t.Fatalf("list by owner: %v", err)
	}

	if len(items) != 1 || items[0].Title != "mine" {
		t.Fatalf("unexpected items: %+v", items)
	}
	if items[0].Banner == nil || items[0].Banner.Path != "banners/abc.png" {
		t.Fatalf("banner not joined: %+v", items[0].Banner)
	}
}

func TestMeetupsRepo_DeleteTwice(t *testing.T) {
	ctx := context.Background()
	r := NewMeetupsRepo()
	m, _ := r.Create(ctx, meetup.Meetup{UserID: 1})

	if err := r.Delete(ctx, m.ID); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := r.Delete(ctx, m.ID); !errors.Is(err, meetup.ErrNotFound) {
		t.Fatalf("second delete: got %v, want ErrNotFound", err)
	}
}

func TestMeetupsRepo_ListOffsetBounds(t *testing.T) {
	ctx := context.Background()
	r := NewMeetupsRepo()
	base := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		_, _ = r.Create(ctx, meetup.Meetup{UserID: 1, Title: "m", Date: base.Add(time.Duration(i) * time.Hour)})
	}

	tests := []struct {
		name      string
		offset    int
		wantItems int
	}{
		{"negative offset reads from the start", -8, 2},
		{"past the end", 10, 0},
		{"max int", math.MaxInt, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, total, err := r.List(ctx, meetup.ListMeetupsFilter{Limit: 2, Offset: tt.offset})
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(items) != tt.wantItems || total != 3 {
				t.Fatalf("got %d items total %d, want %d items total 3", len(items), total, tt.wantItems)
			}
		})
	}
}
