package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/devconnector/internal/application"
	"github.com/oksasatya/devconnector/pkg/response"
	"github.com/oksasatya/devconnector/pkg/validation"
)

type ProfileHandler struct {
	Svc    *app.ProfileService
	GitHub *app.GitHubService
	Logger *logrus.Logger
}

func NewProfileHandler(svc *app.ProfileService, gh *app.GitHubService, logger *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{Svc: svc, GitHub: gh, Logger: logger}
}

// Social links are accepted as top-level fields.
type profileRequest struct {
	Company        *string `json:"company"`
	Website        *string `json:"website"`
	Location       *string `json:"location"`
	Status         string  `json:"status" binding:"required,notblank"`
	Skills         string  `json:"skills" binding:"required,notblank"`
	Bio            *string `json:"bio"`
	GitHubUsername *string `json:"githubusername"`
	YouTube        *string `json:"youtube"`
	Twitter        *string `json:"twitter"`
	Facebook       *string `json:"facebook"`
	LinkedIn       *string `json:"linkedin"`
	Instagram      *string `json:"instagram"`
}

var profileMessages = validation.Messages{
	"status": "Status is required",
	"skills": "Skills is required",
}

type experienceRequest struct {
	Title       string `json:"title" binding:"required,notblank"`
	Company     string `json:"company" binding:"required,notblank"`
	Location    string `json:"location"`
	From        string `json:"from" binding:"required,notblank"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

var experienceMessages = validation.Messages{
	"title":   "Title is required",
	"company": "Company is required",
	"from":    "From date is required",
}

type educationRequest struct {
	School       string `json:"school" binding:"required,notblank"`
	Degree       string `json:"degree" binding:"required,notblank"`
	FieldOfStudy string `json:"fieldofstudy" binding:"required,notblank"`
	From         string `json:"from" binding:"required,notblank"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

var educationMessages = validation.Messages{
	"school":       "School is required",
	"degree":       "Degree is required",
	"fieldofstudy": "Field of study is required",
	"from":         "From date is required",
}

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// parseRange validates from/to, collecting a field error for each bad date.
// A blank from is left to the binding's required check.
func parseRange(from, to string) (time.Time, *time.Time, []response.FieldError) {
	var errs []response.FieldError
	var f time.Time
	if strings.TrimSpace(from) != "" {
		var ok bool
		if f, ok = parseDate(from); !ok {
			errs = append(errs, response.FieldError{Msg: "From date is invalid", Param: "from"})
		}
	}
	var tp *time.Time
	if strings.TrimSpace(to) != "" {
		t, ok := parseDate(to)
		if !ok {
			errs = append(errs, response.FieldError{Msg: "To date is invalid", Param: "to"})
		} else {
			tp = &t
		}
	}
	return f, tp, errs
}

// bindEntry binds an experience or education body and reports field and date
// errors together. ok is false once a response has been written.
func bindEntry(c *gin.Context, req any, msgs validation.Messages, from, to *string) (time.Time, *time.Time, bool) {
	bindErr := c.ShouldBindJSON(req)
	var errs []response.FieldError
	if bindErr != nil {
		errs = validation.ToErrors(bindErr, msgs)
		var verrs validator.ValidationErrors
		if !errors.As(bindErr, &verrs) {
			// the body never decoded, so there are no dates to check
			response.Errors(c, http.StatusBadRequest, errs...)
			return time.Time{}, nil, false
		}
	}
	f, t, dateErrs := parseRange(*from, *to)
	errs = append(errs, dateErrs...)
	if len(errs) > 0 {
		response.Errors(c, http.StatusBadRequest, errs...)
		return time.Time{}, nil, false
	}
	return f, t, true
}

// Me GET /api/profile/me
func (h *ProfileHandler) Me(c *gin.Context) {
	p, err := h.Svc.Me(c.Request.Context(), userID(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, p)
}

// Upsert POST /api/profile
func (h *ProfileHandler) Upsert(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Errors(c, http.StatusBadRequest, validation.ToErrors(err, profileMessages)...)
		return
	}
	in := app.ProfileInput{
		Company:        req.Company,
		Website:        req.Website,
		Location:       req.Location,
		Status:         req.Status,
		Bio:            req.Bio,
		GitHubUsername: req.GitHubUsername,
		Skills:         req.Skills,
		Social: map[string]*string{
			"youtube":   req.YouTube,
			"twitter":   req.Twitter,
			"facebook":  req.Facebook,
			"linkedin":  req.LinkedIn,
			"instagram": req.Instagram,
		},
	}
	p, err := h.Svc.Upsert(c.Request.Context(), userID(c), in)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, p)
}

// List GET /api/profile
func (h *ProfileHandler) List(c *gin.Context) {
	ps, err := h.Svc.List(c.Request.Context())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, ps)
}

// ByUser GET /api/profile/user/:user_id
func (h *ProfileHandler) ByUser(c *gin.Context) {
	p, err := h.Svc.GetByUserID(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		if errors.Is(err, app.ErrProfileNotFound) {
			response.Msg(c, http.StatusBadRequest, "Profile not found")
			return
		}
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, p)
}

// Search GET /api/profile/search?q=
func (h *ProfileHandler) Search(c *gin.Context) {
	ps, err := h.Svc.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, ps)
}

// Delete DELETE /api/profile
func (h *ProfileHandler) Delete(c *gin.Context) {
	if err := h.Svc.DeleteAccount(c.Request.Context(), userID(c)); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, response.Message{Msg: "User deleted"})
}

// AddExperience PUT /api/profile/experience
func (h *ProfileHandler) AddExperience(c *gin.Context) {
	var req experienceRequest
	from, to, ok := bindEntry(c, &req, experienceMessages, &req.From, &req.To)
	if !ok {
		return
	}
	p, err := h.Svc.AddExperience(c.Request.Context(), userID(c), app.ExperienceInput{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        from,
		To:          to,
		Current:     req.Current,
		Description: req.Description,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, p)
}

// RemoveExperience DELETE /api/profile/experience/:exp_id
func (h *ProfileHandler) RemoveExperience(c *gin.Context) {
	p, err := h.Svc.RemoveExperience(c.Request.Context(), userID(c), c.Param("exp_id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, p)
}

// AddEducation PUT /api/profile/education
func (h *ProfileHandler) AddEducation(c *gin.Context) {
	var req educationRequest
	from, to, ok := bindEntry(c, &req, educationMessages, &req.From, &req.To)
	if !ok {
		return
	}
	p, err := h.Svc.AddEducation(c.Request.Context(), userID(c), app.EducationInput{
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         from,
		To:           to,
		Current:      req.Current,
		Description:  req.Description,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, p)
}

// RemoveEducation DELETE /api/profile/education/:edu_id
func (h *ProfileHandler) RemoveEducation(c *gin.Context) {
	p, err := h.Svc.RemoveEducation(c.Request.Context(), userID(c), c.Param("edu_id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, p)
}

// GitHubRepos GET /api/profile/github/:username
func (h *ProfileHandler) GitHubRepos(c *gin.Context) {
	repos, err := h.GitHub.Repos(c.Request.Context(), c.Param("username"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", repos)
}
