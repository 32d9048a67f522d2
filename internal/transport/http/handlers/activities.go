package handlers

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/teamdesk/activity-service/internal/application/activity"
	"github.com/teamdesk/activity-service/internal/domain"
	"github.com/teamdesk/activity-service/internal/transport/http/dto"
	"github.com/teamdesk/activity-service/internal/transport/http/response"
	"github.com/teamdesk/activity-service/internal/transport/http/validate"
)

type ActivitiesHandler struct {
	svc *activity.Service
}

func NewActivitiesHandler(svc *activity.Service) *ActivitiesHandler {
	return &ActivitiesHandler{svc: svc}
}

func (h *ActivitiesHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := intParam(q, "page")
	if err != nil {
		response.Err(w, err)
		return
	}
	limit, err := intParam(q, "limit")
	if err != nil {
		response.Err(w, err)
		return
	}

	var pinnedPtr *bool
	if v := q.Get("isPinned"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			response.Err(w, domain.ErrValidationMeta("invalid query param", map[string]string{
				"isPinned": "must be true or false",
			}))
			return
		}
		pinnedPtr = &b
	}

	filter := activity.ListFilter{
		Type:      q.Get("type"),
		IsPinned:  pinnedPtr,
		Search:    q.Get("search"),
		Page:      page,
		PageSize:  limit,
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	}

	res, err := h.svc.List(r.Context(), filter)
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Data(w, http.StatusOK, dto.ToListResp(res))
}

func (h *ActivitiesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := activityID(w, r)
	if !ok {
		return
	}
	a, err := h.svc.Get(r.Context(), id)
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Data(w, http.StatusOK, dto.ToActivityResp(a))
}

func (h *ActivitiesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateActivityReq
	if err := validate.DecodeJSON(r, &req); err != nil {
		response.Err(w, domain.ErrValidationMeta("invalid json body", map[string]string{
			"body": "malformed JSON or invalid fields",
		}))
		return
	}

	a, err := h.svc.Create(r.Context(), activity.CreateCmd{
		Type:       req.Type,
		Message:    req.Message,
		UserID:     req.UserID,
		EventID:    req.EventID,
		MentionIDs: req.Mentions,
		Tags:       req.Tags,
	})
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Message(w, http.StatusCreated, "Activity created", dto.ToActivityResp(a))
}

func (h *ActivitiesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := activityID(w, r)
	if !ok {
		return
	}
	var req dto.UpdateActivityReq
	if err := validate.DecodeJSON(r, &req); err != nil {
		response.Err(w, domain.ErrValidationMeta("invalid json body", map[string]string{
			"body": "malformed JSON or invalid fields",
		}))
		return
	}

	a, err := h.svc.Update(r.Context(), id, activity.UpdateCmd{
		Message:  req.Message,
		Tags:     req.Tags,
		IsPinned: req.IsPinned,
	})
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Message(w, http.StatusOK, "Activity updated", dto.ToActivityResp(a))
}

func (h *ActivitiesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := activityID(w, r)
	if !ok {
		return
	}
	var req dto.DeleteActivityReq
	if err := validate.DecodeJSON(r, &req); err != nil {
		response.Err(w, domain.ErrValidationMeta("invalid json body", map[string]string{
			"body": "userId is required for deletion",
		}))
		return
	}

	a, err := h.svc.Delete(r.Context(), id, req.UserID)
	if err != nil {
		response.Err(w, err)
		return
	}
	// Return the removed record for confirmation/undo display.
	response.Message(w, http.StatusOK, "Activity deleted", dto.ToActivityResp(a))
}

// likeEnvelope carries the extra isLiked flag the dashboard flips on.
type likeEnvelope struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Data    dto.ActivityResp `json:"data"`
	IsLiked bool             `json:"isLiked"`
}

func (h *ActivitiesHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	id, ok := activityID(w, r)
	if !ok {
		return
	}
	var req dto.LikeReq
	if err := validate.DecodeJSON(r, &req); err != nil {
		response.Err(w, domain.ErrValidationMeta("invalid json body", map[string]string{
			"body": "userId is required",
		}))
		return
	}

	a, liked, err := h.svc.ToggleLike(r.Context(), id, req.UserID)
	if err != nil {
		response.Err(w, err)
		return
	}

	msg := "Activity unliked"
	if liked {
		msg = "Activity liked"
	}
	response.JSON(w, http.StatusOK, likeEnvelope{
		Success: true,
		Message: msg,
		Data:    dto.ToActivityResp(a),
		IsLiked: liked,
	})
}

func (h *ActivitiesHandler) SetPinned(w http.ResponseWriter, r *http.Request) {
	id, ok := activityID(w, r)
	if !ok {
		return
	}
	var req dto.PinReq
	if err := validate.DecodeJSON(r, &req); err != nil || req.IsPinned == nil {
		response.Err(w, domain.ErrValidationMeta("invalid json body", map[string]string{
			"isPinned": "must be true or false",
		}))
		return
	}

	a, err := h.svc.SetPinned(r.Context(), id, *req.IsPinned)
	if err != nil {
		response.Err(w, err)
		return
	}

	msg := "Activity unpinned"
	if a.IsPinned {
		msg = "Activity pinned"
	}
	response.Message(w, http.StatusOK, msg, dto.ToActivityResp(a))
}

func (h *ActivitiesHandler) AddReply(w http.ResponseWriter, r *http.Request) {
	id, ok := activityID(w, r)
	if !ok {
		return
	}
	var req dto.ReplyReq
	if err := validate.DecodeJSON(r, &req); err != nil {
		response.Err(w, domain.ErrValidationMeta("invalid json body", map[string]string{
			"body": "malformed JSON or invalid fields",
		}))
		return
	}

	a, err := h.svc.AddReply(r.Context(), id, req.UserID, req.Message)
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Message(w, http.StatusOK, "Reply added", dto.ToActivityResp(a))
}

func (h *ActivitiesHandler) DeleteReply(w http.ResponseWriter, r *http.Request) {
	id, ok := activityID(w, r)
	if !ok {
		return
	}
	replyID := chi.URLParam(r, "reply_id")
	if !validate.IsUUID(replyID) {
		response.Err(w, domain.ErrValidationMeta("invalid path param", map[string]string{
			"replyId": "must be uuid",
		}))
		return
	}

	var req dto.DeleteReplyReq
	if err := validate.DecodeJSON(r, &req); err != nil {
		response.Err(w, domain.ErrValidationMeta("invalid json body", map[string]string{
			"body": "userId is required for deletion",
		}))
		return
	}

	a, err := h.svc.DeleteReply(r.Context(), id, replyID, req.UserID)
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Message(w, http.StatusOK, "Reply deleted", dto.ToActivityResp(a))
}

func (h *ActivitiesHandler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.GetStats(r.Context())
	if err != nil {
		response.Err(w, err)
		return
	}
	response.Data(w, http.StatusOK, dto.ToStatsResp(st))
}

// intParam parses an optional integer query param; absent means zero so the
// service applies its defaults.
func intParam(q url.Values, name string) (int, error) {
	v := q.Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, domain.ErrValidationMeta("invalid query param", map[string]string{
			name: "must be an integer",
		})
	}
	return n, nil
}

func activityID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "activity_id")
	if !validate.IsUUID(id) {
		response.Err(w, domain.ErrValidationMeta("invalid path param", map[string]string{
			"activityId": "must be uuid",
		}))
		return "", false
	}
	return id, true
}
