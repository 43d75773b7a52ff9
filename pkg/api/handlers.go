package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	_ "image/jpeg"
	"image/png"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/slipway-dev/slipway/pkg/svc/matting"
)

type handler struct {
	remover       matting.Remover
	predictDelay  time.Duration
	maxImageBytes int64
	logger        *logrus.Logger
}

type predictRequest struct {
	Image string `json:"image"`
}

type predictResponse struct {
	Image  string `json:"image"`
	Status string `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *handler) root(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("cutout-api is alive"))
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// metadata is reserved for model information once a real engine is wired in.
func (h *handler) metadata(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{})
}

func (h *handler) predict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest

	r.Body = http.MaxBytesReader(w, r.Body, h.bodyLimit())

	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "image exceeds size limit")

			return
		}

		writeError(w, http.StatusBadRequest, "malformed JSON body")

		return
	}

	if req.Image == "" {
		writeError(w, http.StatusBadRequest, "missing image field")

		return
	}

	payload, err := base64.StdEncoding.Strict().DecodeString(req.Image)
	if err != nil {
		writeError(w, http.StatusBadRequest, "image field is not valid base64")

		return
	}

	if int64(len(payload)) > h.maxImageBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "image exceeds size limit")

		return
	}

	source, _, err := image.Decode(bytes.NewReader(payload))
	if err != nil {
		writeError(w, http.StatusBadRequest, "image could not be decoded")

		return
	}

	err = h.sleep(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "request cancelled")

		return
	}

	result, err := h.remover.Remove(r.Context(), source)
	if err != nil {
		if errors.Is(err, matting.ErrUnprocessableImage) {
			writeError(w, http.StatusUnprocessableEntity, "image cannot be processed")

			return
		}

		h.logger.WithError(err).Error("background removal failed")
		writeError(w, http.StatusInternalServerError, "internal error")

		return
	}

	var encoded bytes.Buffer

	err = png.Encode(&encoded, result)
	if err != nil {
		h.logger.WithError(err).Error("result encoding failed")
		writeError(w, http.StatusInternalServerError, "internal error")

		return
	}

	writeJSON(w, http.StatusOK, predictResponse{
		Image:  base64.StdEncoding.EncodeToString(encoded.Bytes()),
		Status: "ok",
	})
}

// bodyLimit bounds the request body at the image limit after base64 expansion
// plus room for the JSON envelope.
func (h *handler) bodyLimit() int64 {
	return (h.maxImageBytes*4)/3 + 1024
}

// sleep blocks for the configured predict delay, returning early on
// cancellation.
func (h *handler) sleep(ctx context.Context) error {
	if h.predictDelay <= 0 {
		return nil
	}

	timer := time.NewTimer(h.predictDelay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
