package handler

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/csesnitw/MessApp-server/internal/googleauth"
	"github.com/csesnitw/MessApp-server/internal/roster"
)

// CheckInit reports whether any roster has been imported yet, so the app can
// show a "contact admin" screen before first setup. Unauthenticated.
func (h *Handler) CheckInit(c *gin.Context) {
	initialized, err := h.roster.Initialized(c.Request.Context())
	if err != nil {
		h.storeFail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"initialized": initialized})
}

// StudentLogin resolves the verified Google identity against the roster.
// A verified student who was never imported gets a 404, not an account.
func (h *Handler) StudentLogin(c *gin.Context) {
	ident, _ := googleauth.StudentIdentity(c)

	st, err := h.roster.Profile(c.Request.Context(), ident.RollNo)
	if err != nil {
		if errors.Is(err, roster.ErrNotFound) {
			h.fail(c, http.StatusNotFound, "Student not found in the system. Please contact admin.", nil)
			return
		}
		h.storeFail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"student": studentPayload(st, ident),
	})
}

// StudentDetails returns the full profile for the verified identity.
func (h *Handler) StudentDetails(c *gin.Context) {
	ident, _ := googleauth.StudentIdentity(c)

	st, err := h.roster.Profile(c.Request.Context(), ident.RollNo)
	if err != nil {
		if errors.Is(err, roster.ErrNotFound) {
			h.fail(c, http.StatusNotFound, "Student not found", nil)
			return
		}
		h.storeFail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Student details fetched successfully",
		"student": studentPayload(st, ident),
	})
}

// UploadPhoto stores the student's photo. With Cloudinary configured the
// image goes there and the CDN URL is stored; otherwise the data URL itself
// is kept as the photo reference.
func (h *Handler) UploadPhoto(c *gin.Context) {
	ident, _ := googleauth.StudentIdentity(c)

	photoRef, status, err := h.receivePhoto(c, ident.RollNo)
	if err != nil {
		if status == http.StatusBadGateway {
			log.Printf("photo upload for %s failed: %v", ident.RollNo, err)
			h.fail(c, status, "Photo upload failed", err)
			return
		}
		h.fail(c, status, err.Error(), nil)
		return
	}

	st, err := h.roster.SetPhoto(c.Request.Context(), ident.RollNo, photoRef)
	if err != nil {
		if errors.Is(err, roster.ErrNotFound) {
			h.fail(c, http.StatusNotFound, "Student not found", nil)
			return
		}
		h.storeFail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Photo uploaded successfully",
		"student": studentPayload(st, ident),
	})
}

// receivePhoto accepts either a multipart file field or a JSON body with a
// base64 data URL, mirroring the two client versions in the field.
func (h *Handler) receivePhoto(c *gin.Context, rollNo string) (string, int, error) {
	publicID := strings.ToLower(rollNo)

	if strings.Contains(c.ContentType(), "multipart/form-data") {
		file, header, err := c.Request.FormFile("photo")
		if err != nil {
			return "", http.StatusBadRequest, errors.New("photo file is required")
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return "", http.StatusBadRequest, errors.New("could not read photo")
		}
		if h.cloud == nil {
			return "", http.StatusServiceUnavailable, errors.New("image storage not configured")
		}
		result, err := h.cloud.UploadBytes(data, header.Filename, publicID)
		if err != nil {
			return "", http.StatusBadGateway, err
		}
		return result.SecureURL, 0, nil
	}

	var body struct {
		PhotoBase64 string `json:"photoBase64" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		return "", http.StatusBadRequest, errors.New("photoBase64 is required")
	}
	if h.cloud == nil {
		// Keep the data URL as the stored reference.
		return body.PhotoBase64, 0, nil
	}
	result, err := h.cloud.UploadDataURL(body.PhotoBase64, publicID)
	if err != nil {
		return "", http.StatusBadGateway, err
	}
	return result.SecureURL, 0, nil
}

// SyncToken applies the student-side token transition. Always succeeds once
// the student resolves; the response carries the resulting state.
func (h *Handler) SyncToken(c *gin.Context) {
	ident, _ := googleauth.StudentIdentity(c)

	state, err := h.roster.SyncToken(c.Request.Context(), ident.RollNo)
	if err != nil {
		if errors.Is(err, roster.ErrNotFound) {
			h.fail(c, http.StatusNotFound, "Student not found", nil)
			return
		}
		h.storeFail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Token synced successfully",
		"specialToken": state,
	})
}

// TodayMenu resolves the effective menu for the student's mess and today's
// weekday in the configured timezone.
func (h *Handler) TodayMenu(c *gin.Context) {
	ident, _ := googleauth.StudentIdentity(c)

	st, err := h.roster.Profile(c.Request.Context(), ident.RollNo)
	if err != nil {
		if errors.Is(err, roster.ErrNotFound) {
			h.fail(c, http.StatusNotFound, "Student not found", nil)
			return
		}
		h.storeFail(c, err)
		return
	}

	day := time.Now().In(h.loc).Weekday().String()
	entry, _, err := h.menus.Resolve(c.Request.Context(), st.Mess, day)
	if err != nil {
		h.storeFail(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func studentPayload(st *roster.Student, ident googleauth.Identity) gin.H {
	name := st.Name
	if name == "" {
		name = ident.Name
	}
	photo := st.PhotoURL
	if photo == "" {
		photo = ident.Picture
	}
	return gin.H{
		"name":             name,
		"email":            ident.Email,
		"rollNo":           st.RollNo,
		"mess":             st.Mess,
		"photoUrl":         photo,
		"hasUploadedPhoto": st.HasUploadedPhoto,
		"specialToken":     st.Token,
	}
}
