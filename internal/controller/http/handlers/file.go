package handlers

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"CommerceAdapters/internal/domain/file"

	"github.com/gin-gonic/gin"
)

type FileHandler struct {
	provider file.Provider
}

func NewFileHandler(p file.Provider) *FileHandler {
	return &FileHandler{provider: p}
}

// uploadJSON is the non-multipart upload shape; Content is base64 in JSON.
type uploadJSON struct {
	Filename string `json:"filename"`
	MimeType string `json:"mime_type"`
	Content  []byte `json:"content"`
	Access   string `json:"access"`
}

type urlResponse struct {
	URL string `json:"url"`
}

type contentResponse struct {
	Key     string `json:"key"`
	Content []byte `json:"content"`
}

// Upload accepts either a multipart form with a "file" part or a JSON body.
func (h *FileHandler) Upload(c *gin.Context) {
	in, closer, err := uploadInput(c)
	if err != nil {
		writeError(c, fmt.Errorf("%w: %v", errInvalidBody, err))
		return
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}

	res, err := h.provider.Upload(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *FileHandler) Delete(c *gin.Context) {
	if err := h.provider.Delete(c.Request.Context(), c.QueryArray("key")...); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *FileHandler) PresignedDownloadURL(c *gin.Context) {
	url, err := h.provider.GetPresignedDownloadURL(c.Request.Context(), c.Query("key"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, urlResponse{URL: url})
}

func (h *FileHandler) PresignedUploadURL(c *gin.Context) {
	url, err := h.provider.GetPresignedUploadURL(c.Request.Context(), c.Query("key"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, urlResponse{URL: url})
}

func (h *FileHandler) Download(c *gin.Context) {
	key := c.Query("key")
	rc, err := h.provider.GetDownloadStream(c.Request.Context(), key)
	if err != nil {
		writeError(c, err)
		return
	}
	defer func() { _ = rc.Close() }()

	c.Header("Content-Disposition", "attachment; filename="+strconv.Quote(key))
	c.DataFromReader(http.StatusOK, -1, "application/octet-stream", rc, nil)
}

func (h *FileHandler) Content(c *gin.Context) {
	key := c.Query("key")
	b, err := h.provider.GetAsBuffer(c.Request.Context(), key)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contentResponse{Key: key, Content: b})
}

func uploadInput(c *gin.Context) (file.UploadInput, io.Closer, error) {
	if c.ContentType() == gin.MIMEMultipartPOSTForm {
		fh, err := c.FormFile("file")
		if err != nil {
			return file.UploadInput{}, nil, err
		}
		f, err := fh.Open()
		if err != nil {
			return file.UploadInput{}, nil, err
		}
		return file.UploadInput{
			Filename: fh.Filename,
			MimeType: partContentType(fh),
			Content:  f,
			Access:   file.Access(c.PostForm("access")),
		}, f, nil
	}

	var body uploadJSON
	if err := c.ShouldBindJSON(&body); err != nil {
		return file.UploadInput{}, nil, err
	}
	return file.UploadInput{
		Filename: body.Filename,
		MimeType: body.MimeType,
		Content:  bytes.NewReader(body.Content),
		Access:   file.Access(body.Access),
	}, nil, nil
}

func partContentType(fh *multipart.FileHeader) string {
	return fh.Header.Get("Content-Type")
}
