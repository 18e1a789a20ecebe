package validators

import (
	"encoding/base64"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"campusswap/market-api/internal/model"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/viper"
)

var (
	ErrImageTooLarge        = errors.New("image too large")
	ErrImageNameTooLong     = errors.New("image file name is too long")
	ErrImageTypeUnsupported = errors.New("only image files are allowed")
	ErrNoImage              = errors.New("no image provided")
	ErrTooManyImages        = errors.New("too many images")
)

const maxImageNameSize = 255

// ImageValidator checks a single multipart upload and converts it into
// the inline data URI form stored on the item. The Content-Type header
// is checked first which is easy to spoof, but fast for legit clients;
// the actual bytes are sniffed afterwards.
func ImageValidator(fh *multipart.FileHeader) (int, model.Image, error) {
	if fh == nil {
		return http.StatusBadRequest, model.Image{}, ErrNoImage
	}

	ct := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "image/") {
		return http.StatusBadRequest, model.Image{}, ErrImageTypeUnsupported
	}

	if len(fh.Filename) > maxImageNameSize {
		return http.StatusBadRequest, model.Image{}, ErrImageNameTooLong
	}

	maxImageSize := viper.GetInt64("upload.max_size")
	if fh.Size > maxImageSize {
		return http.StatusRequestEntityTooLarge, model.Image{}, ErrImageTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return http.StatusInternalServerError, model.Image{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxImageSize+1))
	if err != nil {
		return http.StatusInternalServerError, model.Image{}, err
	}

	if int64(len(data)) > maxImageSize {
		return http.StatusRequestEntityTooLarge, model.Image{}, ErrImageTooLarge
	}

	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return http.StatusBadRequest, model.Image{}, ErrImageTypeUnsupported
	}

	return 0, model.Image{
		URL:      "data:" + mime.String() + ";base64," + base64.StdEncoding.EncodeToString(data),
		Filename: fh.Filename,
		Mimetype: mime.String(),
		Size:     int64(len(data)),
	}, nil
}
