package urlbuilder

import "testing"

func TestBuildOrderAndEncoding(t *testing.T) {
	url, residual := Build("https://stream.twitter.com/1/statuses/filter.json", []Option{
		Count(100),
		Track([]string{"golang", "twitter api"}),
		Follow([]int64{12, 34}),
		{Name: "stall_warnings", Value: "true"},
	})

	const want = "https://stream.twitter.com/1/statuses/filter.json?count=100&track=golang,twitter api&follow=12,34"
	if url != want {
		t.Fatalf("url = %q, want %q", url, want)
	}

	if len(residual) != 1 || residual[0].Name != "stall_warnings" {
		t.Fatalf("residual = %+v, want one stall_warnings option", residual)
	}
}

func TestBuildLocations(t *testing.T) {
	url, _ := Build("https://x", []Option{
		Locations([]Location{{-122.75, 36.8, -121.75, 37.8}}),
	})
	const want = "https://x?locations=-122.75,36.8,-121.75,37.8"
	if url != want {
		t.Fatalf("url = %q, want %q", url, want)
	}
}

func TestBuildDelimitedRendersFixedToken(t *testing.T) {
	url, _ := Build("https://x", []Option{Delimited()})
	const want = "https://x?delimited=length"
	if url != want {
		t.Fatalf("url = %q, want %q", url, want)
	}
}

func TestBuildNoRecognizedOptionsHasNoQuery(t *testing.T) {
	url, residual := Build("https://x", []Option{{Name: "foo", Value: "bar"}})
	if url != "https://x" {
		t.Fatalf("url = %q, want no query string", url)
	}
	if len(residual) != 1 {
		t.Fatalf("residual = %+v, want one entry", residual)
	}
}

func TestBuildIsIdempotent(t *testing.T) {
	opts := []Option{Count(50), Delimited()}
	url1, res1 := Build("https://x", opts)
	url2, res2 := Build("https://x", opts)
	if url1 != url2 {
		t.Fatalf("build not idempotent: %q vs %q", url1, url2)
	}
	if len(res1) != len(res2) {
		t.Fatalf("residual not idempotent: %+v vs %+v", res1, res2)
	}
}
