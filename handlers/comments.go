package handlers

import (
	"log"
	"net/http"

	"blogrig-server/db"
	"blogrig-server/shared"
	"blogrig-server/types"
)

// publicComment drops the guest email unless the viewer is an admin.
func publicComment(c *db.Comment, viewer *types.ServerAuth) *shared.Comment {
	res := c.ToApi()
	if viewer == nil || !viewer.HasRole(shared.RoleAdmin) {
		res.AuthorEmail = nil
	}
	return res
}

func (h *Handler) ListPostCommentsHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for ListPostCommentsHandler")

	postId, ok := pathId(w, r, "postId", "Post not found")
	if !ok {
		return
	}

	comments, err := h.store.ListApprovedComments(r.Context(), postId)
	if err != nil {
		writeServerError(w, "Error listing comments", err)
		return
	}

	res := make([]*shared.Comment, 0, len(comments))
	for _, c := range comments {
		res = append(res, publicComment(c, nil))
	}

	writeJson(w, http.StatusOK, shared.ListCommentsResponse{Comments: res})
}

// ListCommentsHandler is the moderation queue.
func (h *Handler) ListCommentsHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for ListCommentsHandler")
	if h.authorize(w, r, shared.RoleAdmin) == nil {
		return
	}

	page, limit, offset := pagination(r)
	q := r.URL.Query()

	status := q.Get("status")
	if status != "" && !shared.CommentStatus(status).Valid() {
		writeValidationErrors(w, []shared.FieldError{{Field: "status", Msg: "status must be one of: pending, approved, rejected"}})
		return
	}

	filter := db.CommentFilter{Status: status, Limit: limit, Offset: offset}
	if q.Get("post_id") != "" {
		filter.PostId = int64(positiveQueryInt(r, "post_id", -1))
	}

	comments, total, err := h.store.ListComments(r.Context(), filter)
	if err != nil {
		writeServerError(w, "Error listing comments", err)
		return
	}

	res := make([]*shared.Comment, 0, len(comments))
	for _, c := range comments {
		res = append(res, c.ToApi())
	}

	pag := shared.NewPagination(page, limit, total)
	writeJson(w, http.StatusOK, shared.ListCommentsResponse{Comments: res, Pagination: &pag})
}

func (h *Handler) GetCommentHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for GetCommentHandler")

	id, ok := pathId(w, r, "id", "Comment not found")
	if !ok {
		return
	}

	comment, err := h.store.GetComment(r.Context(), id)
	if err != nil {
		writeServerError(w, "Error getting comment", err)
		return
	}
	if comment == nil {
		writeNotFound(w, "Comment not found")
		return
	}

	viewer := h.optionalAuthenticate(r)

	// unapproved comments are only visible to their author and admins
	if comment.Status != shared.CommentStatusApproved {
		if viewer == nil || !(viewer.HasRole(shared.RoleAdmin) ||
			(comment.AuthorId != nil && *comment.AuthorId == viewer.UserId())) {
			writeNotFound(w, "Comment not found")
			return
		}
	}

	writeJson(w, http.StatusOK, map[string]interface{}{"comment": publicComment(comment, viewer)})
}

func (h *Handler) CreateCommentHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for CreateCommentHandler")

	var req shared.CreateCommentRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	ctx := r.Context()

	post, err := h.store.GetPost(ctx, req.PostId)
	if err != nil {
		writeServerError(w, "Error getting post", err)
		return
	}
	if post == nil {
		writeNotFound(w, "Post not found")
		return
	}

	if req.ParentId != nil {
		parent, err := h.store.GetComment(ctx, *req.ParentId)
		if err != nil {
			writeServerError(w, "Error getting parent comment", err)
			return
		}
		if parent == nil || parent.PostId != req.PostId {
			writeValidationErrors(w, []shared.FieldError{{Field: "parent_id", Msg: "Parent comment not found on this post"}})
			return
		}
	}

	comment := &db.Comment{
		PostId:      req.PostId,
		AuthorName:  req.AuthorName,
		AuthorEmail: req.AuthorEmail,
		ParentId:    req.ParentId,
		Content:     req.Content,
		Status:      shared.CommentStatusPending,
	}

	// a bad or missing token just means a guest comment
	serverAuth := h.optionalAuthenticate(r)
	if serverAuth != nil {
		userId := serverAuth.UserId()
		comment.AuthorId = &userId
	}

	err = h.store.CreateComment(ctx, comment)
	if err != nil {
		writeServerError(w, "Error creating comment", err)
		return
	}

	created, err := h.store.GetComment(ctx, comment.Id)
	if err != nil {
		writeServerError(w, "Error getting comment", err)
		return
	}
	if created == nil {
		writeNotFound(w, "Comment not found")
		return
	}

	log.Println("Successfully processed request for CreateCommentHandler")

	writeJson(w, http.StatusCreated, map[string]interface{}{
		"message": "Comment created successfully",
		"comment": created.ToApi(),
	})
}

func (h *Handler) UpdateCommentHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for UpdateCommentHandler")
	serverAuth := h.authenticate(w, r)
	if serverAuth == nil {
		return
	}

	id, ok := pathId(w, r, "id", "Comment not found")
	if !ok {
		return
	}

	ctx := r.Context()

	comment, err := h.store.GetComment(ctx, id)
	if err != nil {
		writeServerError(w, "Error getting comment", err)
		return
	}
	if comment == nil {
		writeNotFound(w, "Comment not found")
		return
	}

	if !authorizeOwner(w, serverAuth, comment.AuthorId, shared.RoleAdmin) {
		return
	}

	var req shared.UpdateCommentRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	_, err = h.store.UpdateCommentContent(ctx, id, req.Content)
	if err != nil {
		writeServerError(w, "Error updating comment", err)
		return
	}

	updated, err := h.store.GetComment(ctx, id)
	if err != nil {
		writeServerError(w, "Error getting comment", err)
		return
	}
	if updated == nil {
		writeNotFound(w, "Comment not found")
		return
	}

	writeJson(w, http.StatusOK, map[string]interface{}{
		"message": "Comment updated successfully",
		"comment": updated.ToApi(),
	})
}

func (h *Handler) UpdateCommentStatusHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for UpdateCommentStatusHandler")
	if h.authorize(w, r, shared.RoleAdmin) == nil {
		return
	}

	id, ok := pathId(w, r, "id", "Comment not found")
	if !ok {
		return
	}

	var req shared.UpdateCommentStatusRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	found, err := h.store.UpdateCommentStatus(r.Context(), id, req.Status)
	if err != nil {
		writeServerError(w, "Error updating comment status", err)
		return
	}
	if !found {
		writeNotFound(w, "Comment not found")
		return
	}

	log.Println("Successfully processed request for UpdateCommentStatusHandler")

	writeMessage(w, http.StatusOK, "Comment status updated successfully")
}

func (h *Handler) DeleteCommentHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for DeleteCommentHandler")
	serverAuth := h.authenticate(w, r)
	if serverAuth == nil {
		return
	}

	id, ok := pathId(w, r, "id", "Comment not found")
	if !ok {
		return
	}

	ctx := r.Context()

	comment, err := h.store.GetComment(ctx, id)
	if err != nil {
		writeServerError(w, "Error getting comment", err)
		return
	}
	if comment == nil {
		writeNotFound(w, "Comment not found")
		return
	}

	if !authorizeOwner(w, serverAuth, comment.AuthorId, shared.RoleAdmin) {
		return
	}

	_, err = h.store.DeleteComment(ctx, id)
	if err != nil {
		writeServerError(w, "Error deleting comment", err)
		return
	}

	log.Println("Successfully processed request for DeleteCommentHandler")

	writeMessage(w, http.StatusOK, "Comment deleted successfully")
}
