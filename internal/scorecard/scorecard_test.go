package scorecard

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 7), G: 120, B: uint8(y * 5), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestPreprocessRotatesPortraitAndGrays(t *testing.T) {
	out, err := Preprocess(jpegBytes(t, 30, 40))
	require.NoError(t, err)

	img, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 40, img.Bounds().Dx())
	assert.Equal(t, 30, img.Bounds().Dy())

	for _, p := range []image.Point{{0, 0}, {20, 15}, {39, 29}} {
		r, g, b, _ := img.At(p.X, p.Y).RGBA()
		assert.Equal(t, r, g)
		assert.Equal(t, g, b)
	}
}

func TestPreprocessKeepsLandscape(t *testing.T) {
	out, err := Preprocess(jpegBytes(t, 60, 20))
	require.NoError(t, err)

	img, err := imaging.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 60, 20), img.Bounds())
}

func TestPreprocessRejectsNonImages(t *testing.T) {
	_, err := Preprocess([]byte("not an image"))
	assert.ErrorContains(t, err, "decode scorecard")
}

func TestParseHoleScores(t *testing.T) {
	reply := "Here are Connor's scores:\n```json\n" +
		`{"1": 4, "Hole 2": "5", "hole_3": "Unk", "Hole4Score": 3, "19": 4, "5": 4.5, "Total": 80}` +
		"\n```"

	scores, ok := ParseHoleScores(reply)
	require.True(t, ok)
	assert.Equal(t, map[string]int{"Hole1Score": 4, "Hole2Score": 5, "Hole4Score": 3}, scores)
}

func TestParseHoleScoresUnreadable(t *testing.T) {
	for _, reply := range []string{
		"I could not read the scorecard.",
		"```json\n{not json}\n```",
		`{"1": "Unk", "2": "Unk"}`,
	} {
		_, ok := ParseHoleScores(reply)
		assert.False(t, ok, reply)
	}
}

func TestHTTPDownloader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/card.jpg":
			_, _ = w.Write([]byte("jpeg-bytes"))
		case "/old":
			http.Redirect(w, r, "/card.jpg", http.StatusFound)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	d := HTTPDownloader{}
	data, err := d.Download(context.Background(), srv.URL+"/card.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), data)

	data, err = d.Download(context.Background(), srv.URL+"/old")
	require.NoError(t, err, "redirects are followed")
	assert.Equal(t, []byte("jpeg-bytes"), data)

	_, err = d.Download(context.Background(), srv.URL+"/missing.jpg")
	assert.ErrorContains(t, err, "status 404")
}

func TestHTTPDownloaderExpiredContext(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer srv.Close()

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := HTTPDownloader{}.Download(ctx, srv.URL+"/card.jpg")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Zero(t, requests)
}
