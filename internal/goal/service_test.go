package goal_test

import (
	"context"
	"errors"
	"testing"

	"github.com/saulo-duarte/strive/internal/category"
	"github.com/saulo-duarte/strive/internal/goal"
	"github.com/saulo-duarte/strive/internal/testutil"
	"github.com/saulo-duarte/strive/internal/validation"
	"gorm.io/gorm"
)

type fixture struct {
	svc    goal.Service
	db     *gorm.DB
	alice  uint
	bob    uint
	health *category.Category
	bobCat *category.Category
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	gw, db := testutil.NewGateway(t)
	alice := testutil.SeedUser(t, db, "alice")
	bob := testutil.SeedUser(t, db, "bob")

	categories := category.NewService(category.NewRepository(gw))
	svc := goal.NewService(goal.NewRepository(gw), categories, validation.FixedClock(testutil.Date(0)))

	return fixture{
		svc:    svc,
		db:     db,
		alice:  alice.ID,
		bob:    bob.ID,
		health: testutil.SeedCategory(t, db, alice.ID, "Health"),
		bobCat: testutil.SeedCategory(t, db, bob.ID, "Bob's"),
	}
}

func validForm() goal.Form {
	return goal.Form{
		Description: "Run 5k",
		TargetDate:  testutil.Date(0).String(),
		Status:      "Not Started",
	}
}

func TestGoalValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*goal.Form)
		want   string
	}{
		{"missing description", func(g *goal.Form) { g.Description = "" }, goal.MsgDescriptionRequired},
		{"missing target date", func(g *goal.Form) { g.TargetDate = " " }, goal.MsgTargetDateRequired},
		{"missing status", func(g *goal.Form) { g.Status = "" }, goal.MsgStatusRequired},
		{"malformed category", func(g *goal.Form) { g.CategoryID = "abc" }, goal.MsgCategoryFormat},
		{"foreign category", func(g *goal.Form) { g.CategoryID = idOf(f.bobCat.ID) }, goal.MsgCategoryForeign},
		{"unknown category", func(g *goal.Form) { g.CategoryID = "9999" }, goal.MsgCategoryForeign},
		{"malformed date", func(g *goal.Form) { g.TargetDate = "16/10/2030" }, goal.MsgTargetDateFormat},
		{"yesterday", func(g *goal.Form) { g.TargetDate = testutil.Date(-1).String() }, goal.MsgTargetDatePast},
		{
			"category checked before date",
			func(g *goal.Form) { g.CategoryID = "abc"; g.TargetDate = "nope" },
			goal.MsgCategoryFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(&form)

			_, err := f.svc.Create(ctx, f.alice, form)
			verr, ok := validation.As(err)
			if !ok {
				t.Fatalf("expected a validation error, got %v", err)
			}
			if verr.Message != tt.want {
				t.Errorf("message = %q, want %q", verr.Message, tt.want)
			}
		})
	}

	var count int64
	f.db.Model(&goal.Goal{}).Count(&count)
	if count != 0 {
		t.Errorf("rejected forms must not reach storage, found %d goals", count)
	}
}

func TestGoalCreateAcceptsToday(t *testing.T) {
	f := newFixture(t)
	form := validForm()
	form.CategoryID = idOf(f.health.ID)

	g, err := f.svc.Create(context.Background(), f.alice, form)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if g.CategoryID == nil || *g.CategoryID != f.health.ID {
		t.Errorf("category not set: %+v", g.CategoryID)
	}
}

func TestGoalOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	g, err := f.svc.Create(ctx, f.alice, validForm())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t.Run("get", func(t *testing.T) {
		if _, err := f.svc.Get(ctx, g.ID, f.bob); !errors.Is(err, goal.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("update", func(t *testing.T) {
		form := validForm()
		form.ID = idOf(g.ID)
		form.Description = "stolen"
		if _, err := f.svc.Update(ctx, f.bob, form); !errors.Is(err, goal.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := f.svc.Delete(ctx, g.ID, f.bob); !errors.Is(err, goal.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	got, err := f.svc.Get(ctx, g.ID, f.alice)
	if err != nil || got.Description != "Run 5k" {
		t.Errorf("goal changed by another user: %+v, %v", got, err)
	}
}

func TestGoalListFilter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	withCat := validForm()
	withCat.CategoryID = idOf(f.health.ID)
	if _, err := f.svc.Create(ctx, f.alice, withCat); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Create(ctx, f.alice, validForm()); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		filter   string
		goals    int
		selected uint
		message  string
	}{
		{"no filter", "", 2, 0, ""},
		{"own category", idOf(f.health.ID), 1, f.health.ID, ""},
		{"malformed filter", "x1", 2, 0, goal.MsgFilterFormat},
		{"foreign filter", idOf(f.bobCat.ID), 2, 0, goal.MsgFilterForeign},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.svc.List(ctx, f.alice, tt.filter)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if len(res.Goals) != tt.goals {
				t.Errorf("goals = %d, want %d", len(res.Goals), tt.goals)
			}
			if res.SelectedCategoryID != tt.selected {
				t.Errorf("selected = %d, want %d", res.SelectedCategoryID, tt.selected)
			}
			if res.FilterError != tt.message {
				t.Errorf("filter error = %q, want %q", res.FilterError, tt.message)
			}
			if len(res.Categories) != 1 {
				t.Errorf("expected only alice's category, got %d", len(res.Categories))
			}
		})
	}
}

func idOf(id uint) string {
	return goal.FormFrom(&goal.Goal{ID: id}).ID
}
