package main

import (
	"strings"
	"testing"
	"time"
)

func TestSeedDataReferences(t *testing.T) {
	now := time.Now()
	users := map[string]bool{}
	for _, u := range buildUsers(now) {
		users[u.Username] = true
	}
	categories := map[string]bool{}
	for _, c := range buildCategories(now) {
		categories[c.Name] = true
	}
	items := map[string]bool{}
	for _, it := range buildItems(now) {
		if !categories[it.Category] || !users[it.Owner] {
			t.Fatalf("item %q has dangling refs", it.Name)
		}
		if !strings.HasPrefix(it.ImageURL, "https://") {
			t.Fatalf("image url=%s", it.ImageURL)
		}
		items[it.Name] = true
	}
	reviews := map[string]bool{}
	for _, r := range buildReviews(now) {
		if !users[r.User] || !items[r.Item] {
			t.Fatalf("review %+v has dangling refs", r)
		}
		if reviews[r.User+"/"+r.Item] {
			t.Fatalf("duplicate review %s/%s", r.User, r.Item)
		}
		reviews[r.User+"/"+r.Item] = true
	}
	for _, c := range buildComments(now) {
		if !users[c.User] || !reviews[c.ReviewUser+"/"+c.ReviewItem] {
			t.Fatalf("comment %+v has dangling refs", c)
		}
	}
}

func TestPlaceholderURL(t *testing.T) {
	got := placeholderURL("Burger Place")
	if got != "https://placehold.co/300x200?text=Burger+Place" {
		t.Fatalf("got=%s", got)
	}
}
