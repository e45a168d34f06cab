package goquery_test

import (
	"testing"

	"github.com/fwojciec/leadscout"
	"github.com/fwojciec/leadscout/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const placeURL = "https://www.google.com/maps/place/Joe's+Pizza/data=!4m7!3m6!1s0x89c2599:0x3e!8m2!3d40.73"

func TestPlaceParser_ParsePlace(t *testing.T) {
	t.Parallel()

	t.Run("extracts listing fields", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<h1 class="DUwDvf"> Joe's Pizza </h1>
<div class="F7nice"><span aria-label="4.5 stars ">4.5</span><span aria-label="1,234 reviews">(1,234)</span></div>
<button jsaction="pane.rating.category">Pizza restaurant</button>
<button data-item-id="address">7 Carmine St, New York, NY 10014</button>
<button data-item-id="phone:tel:+12123661182" aria-label="Phone: (212) 366-1182 ">(212) 366-1182</button>
<a data-item-id="authority" href="https://joespizzanyc.com/">joespizzanyc.com</a>
<button data-item-id="oh" aria-label="Monday, 10 AM to 4 AM">Open</button>
<span aria-label="Price: Inexpensive">$</span>
</body></html>`

		place, err := goquery.NewPlaceParser().ParsePlace(html, placeURL)

		require.NoError(t, err)
		assert.Equal(t, placeURL, place.URL)
		assert.Equal(t, "0x89c2599:0x3e", place.PlaceID)
		assert.Equal(t, "Joe's Pizza", place.Title)
		assert.Equal(t, "Pizza restaurant", place.Category)
		assert.Equal(t, "7 Carmine St, New York, NY 10014", place.Address)
		assert.Equal(t, "(212) 366-1182", place.Phone)
		assert.Equal(t, "https://joespizzanyc.com/", place.Website)
		assert.Equal(t, "Monday, 10 AM to 4 AM", place.OpeningHours)
		assert.Equal(t, "$", place.PriceLevel)
		require.NotNil(t, place.Rating)
		assert.InDelta(t, 4.5, *place.Rating, 1e-9)
		require.NotNil(t, place.ReviewsCount)
		assert.Equal(t, 1234, *place.ReviewsCount)
		require.NotNil(t, place.TotalScore)
		assert.InDelta(t, 13.91, *place.TotalScore, 1e-9)
	})

	t.Run("leaves score empty without reviews", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><h1>Corner Shop</h1><div class="F7nice"><span aria-label="4.0 stars">4.0</span></div></body></html>`

		place, err := goquery.NewPlaceParser().ParsePlace(html, "https://www.google.com/maps/place/Corner")

		require.NoError(t, err)
		assert.Equal(t, "Corner Shop", place.Title)
		assert.Empty(t, place.PlaceID)
		assert.NotNil(t, place.Rating)
		assert.Nil(t, place.ReviewsCount)
		assert.Nil(t, place.TotalScore)
	})
}

func TestPlaceParser_ParseImages(t *testing.T) {
	t.Parallel()

	html := `<html><body>
<img src="https://lh5.googleusercontent.com/p/a.jpg">
<img src="https://lh5.googleusercontent.com/p/a.jpg">
<img src="https://maps.gstatic.com/icon.png">
<img src="https://lh5.googleusercontent.com/p/b.jpg">
</body></html>`

	images := goquery.NewPlaceParser().ParseImages(html)

	assert.Equal(t, []string{
		"https://lh5.googleusercontent.com/p/a.jpg",
		"https://lh5.googleusercontent.com/p/b.jpg",
	}, images)
}

func TestPlaceParser_ParseReviews(t *testing.T) {
	t.Parallel()

	html := `<html><body>
<div data-review-id="r1">
  <div class="d4r55">Ana</div>
  <span role="img" aria-label="5 stars"></span>
  <span class="wiI7pd">Best slice in town.</span>
  <span class="rsqaWe">a week ago</span>
</div>
<div data-review-id="r2"><span class="wiI7pd">Too busy.</span><span role="img" aria-label=" 2 stars "></span></div>
<div data-review-id="r3"></div>
</body></html>`

	reviews := goquery.NewPlaceParser().ParseReviews(html)

	require.Len(t, reviews, 2)
	assert.Equal(t, leadscout.Review{ReviewerName: "Ana", Rating: 5, Text: "Best slice in town.", Date: "a week ago"}, reviews[0])
	assert.Equal(t, leadscout.Review{Rating: 2, Text: "Too busy."}, reviews[1])
}

func TestPlaceID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0x89c2599:0x3e", goquery.PlaceID(placeURL))
	assert.Empty(t, goquery.PlaceID("https://www.google.com/maps/place/Nowhere"))
}
