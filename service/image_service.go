package application

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const uploadFolder = "/citysettel/listings"

type UploadedImage struct {
	URL          string `json:"url"`
	FileID       string `json:"fileId"`
	ThumbnailURL string `json:"thumbnailUrl"`
}

// UploadAuthParams are the signature parameters handed to the SPA for
// client-side uploads against the asset host.
type UploadAuthParams struct {
	Token     string `json:"token"`
	Expire    int64  `json:"expire"`
	Signature string `json:"signature"`
}

// AssetHost is the opaque third-party object store the image endpoints
// delegate to.
type AssetHost interface {
	Upload(ctx context.Context, fileName string, file []byte) (*UploadedImage, error)
	Delete(ctx context.Context, fileID string) error
	AuthenticationParameters() UploadAuthParams
}

type ImageService struct {
	host   AssetHost
	logger *logrus.Logger
	tracer trace.Tracer
}

func NewImageService(host AssetHost, logger *logrus.Logger, tracer trace.Tracer) *ImageService {
	return &ImageService{
		host:   host,
		logger: logger,
		tracer: tracer,
	}
}

func (service *ImageService) Upload(ctx context.Context, originalName string, file []byte) (*UploadedImage, error) {
	ctx, span := service.tracer.Start(ctx, "ImageService.Upload")
	defer span.End()

	fileName := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), originalName)
	uploaded, err := service.host.Upload(ctx, fileName, file)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return uploaded, nil
}

func (service *ImageService) UploadMany(ctx context.Context, names []string, files [][]byte) ([]*UploadedImage, error) {
	ctx, span := service.tracer.Start(ctx, "ImageService.UploadMany")
	defer span.End()

	uploaded := make([]*UploadedImage, 0, len(files))
	for i, file := range files {
		image, err := service.Upload(ctx, names[i], file)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		uploaded = append(uploaded, image)
	}
	return uploaded, nil
}

func (service *ImageService) Delete(ctx context.Context, fileID string) error {
	ctx, span := service.tracer.Start(ctx, "ImageService.Delete")
	defer span.End()

	if err := service.host.Delete(ctx, fileID); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (service *ImageService) AuthenticationParameters() UploadAuthParams {
	return service.host.AuthenticationParameters()
}

// ImageKitHost talks to the ImageKit REST API. Calls run through a circuit
// breaker so a degraded asset host fails fast instead of piling up requests.
type ImageKitHost struct {
	privateKey string
	uploadURL  string
	apiURL     string
	client     *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *logrus.Logger
}

func NewImageKitHost(privateKey string, client *http.Client, logger *logrus.Logger) *ImageKitHost {
	return &ImageKitHost{
		privateKey: privateKey,
		uploadURL:  "https://upload.imagekit.io/api/v1/files/upload",
		apiURL:     "https://api.imagekit.io/v1/files",
		client:     client,
		breaker:    NewCircuitBreaker("imagekit", logger),
		logger:     logger,
	}
}

func (host *ImageKitHost) Upload(ctx context.Context, fileName string, file []byte) (*UploadedImage, error) {
	result, err := host.breaker.Execute(func() (interface{}, error) {
		body := &bytes.Buffer{}
		form := multipart.NewWriter(body)

		part, err := form.CreateFormFile("file", fileName)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(file); err != nil {
			return nil, err
		}
		_ = form.WriteField("fileName", fileName)
		_ = form.WriteField("folder", uploadFolder)
		if err := form.Close(); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, host.uploadURL, body)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", form.FormDataContentType())
		req.SetBasicAuth(host.privateKey, "")

		resp, err := host.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			detail, _ := io.ReadAll(resp.Body)
			return nil, fmt.Errorf("asset host upload failed: %d %s", resp.StatusCode, string(detail))
		}

		var uploaded UploadedImage
		if err := json.NewDecoder(resp.Body).Decode(&uploaded); err != nil {
			return nil, err
		}
		return &uploaded, nil
	})
	if err != nil {
		host.logger.WithError(err).Error("asset host upload")
		return nil, err
	}
	return result.(*UploadedImage), nil
}

func (host *ImageKitHost) Delete(ctx context.Context, fileID string) error {
	_, err := host.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodDelete, fmt.Sprintf("%s/%s", host.apiURL, fileID), nil)
		if err != nil {
			return nil, err
		}
		req.SetBasicAuth(host.privateKey, "")

		resp, err := host.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("asset host delete failed: %d", resp.StatusCode)
		}
		return nil, nil
	})
	if err != nil {
		host.logger.WithError(err).Error("asset host delete")
	}
	return err
}

// AuthenticationParameters signs a short-lived token the browser presents
// to the asset host directly.
func (host *ImageKitHost) AuthenticationParameters() UploadAuthParams {
	token := uuid.New().String()
	expire := time.Now().Add(30 * time.Minute).Unix()

	mac := hmac.New(sha1.New, []byte(host.privateKey))
	mac.Write([]byte(fmt.Sprintf("%s%d", token, expire)))

	return UploadAuthParams{
		Token:     token,
		Expire:    expire,
		Signature: hex.EncodeToString(mac.Sum(nil)),
	}
}

func NewCircuitBreaker(name string, logger *logrus.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(
		gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Timeout:     10 * time.Second,
			Interval:    0,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 2
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				logger.Warnf("circuit breaker '%s' changed from '%s' to '%s'", name, from, to)
			},
		},
	)
}
