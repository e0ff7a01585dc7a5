package handlers

import (
	"context"
	"log"
	"net/http"

	"blogrig-server/db"
	"blogrig-server/shared"
	"blogrig-server/utils"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

const defaultPopularLimit = 5

func toApiPosts(posts []*db.Post) []*shared.Post {
	res := make([]*shared.Post, 0, len(posts))
	for _, p := range posts {
		res = append(res, p.ToApi())
	}
	return res
}

func (h *Handler) ListPostsHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for ListPostsHandler")

	page, limit, offset := pagination(r)
	q := r.URL.Query()

	status := q.Get("status")
	switch status {
	case "":
		status = string(shared.PostStatusPublished)
	case "all":
		status = ""
	}

	posts, total, err := h.store.ListPosts(r.Context(), db.PostFilter{
		Status:         status,
		CategorySlug:   q.Get("category"),
		AuthorUsername: q.Get("author"),
		Search:         q.Get("search"),
		Limit:          limit,
		Offset:         offset,
	})
	if err != nil {
		writeServerError(w, "Error listing posts", err)
		return
	}

	writeJson(w, http.StatusOK, shared.ListPostsResponse{
		Posts:      toApiPosts(posts),
		Pagination: shared.NewPagination(page, limit, total),
	})
}

func (h *Handler) ListPopularPostsHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for ListPopularPostsHandler")

	limit := positiveQueryInt(r, "limit", defaultPopularLimit)
	if limit > maxLimit {
		limit = maxLimit
	}

	posts, err := h.store.ListPopularPosts(r.Context(), limit)
	if err != nil {
		writeServerError(w, "Error listing popular posts", err)
		return
	}

	writeJson(w, http.StatusOK, map[string]interface{}{"posts": toApiPosts(posts)})
}

// GetPostHandler responds with the post as fetched, before its view is
// counted.
func (h *Handler) GetPostHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for GetPostHandler")
	ctx := r.Context()

	post, err := h.store.GetPostBySlug(ctx, mux.Vars(r)["slug"])
	if err != nil {
		writeServerError(w, "Error getting post", err)
		return
	}
	if post == nil {
		writeNotFound(w, "Post not found")
		return
	}

	err = h.store.IncrementPostViews(ctx, post.Id)
	if err != nil {
		writeServerError(w, "Error incrementing post views", err)
		return
	}

	writeJson(w, http.StatusOK, map[string]interface{}{"post": post.ToApi()})
}

func (h *Handler) GetPostByIdHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for GetPostByIdHandler")

	id, ok := pathId(w, r, "id", "Post not found")
	if !ok {
		return
	}

	post, err := h.store.GetPost(r.Context(), id)
	if err != nil {
		writeServerError(w, "Error getting post", err)
		return
	}
	if post == nil {
		writeNotFound(w, "Post not found")
		return
	}

	writeJson(w, http.StatusOK, map[string]interface{}{"post": post.ToApi()})
}

// checkCategory reports a validation error when categoryId doesn't exist.
func (h *Handler) checkCategory(ctx context.Context, w http.ResponseWriter, categoryId *int64) bool {
	if categoryId == nil {
		return true
	}

	category, err := h.store.GetCategory(ctx, *categoryId)
	if err != nil {
		writeServerError(w, "Error getting category", err)
		return false
	}
	if category == nil {
		writeValidationErrors(w, []shared.FieldError{{Field: "category_id", Msg: "Category not found"}})
		return false
	}
	return true
}

func (h *Handler) CreatePostHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for CreatePostHandler")
	serverAuth := h.authorize(w, r, shared.RoleAdmin, shared.RoleAuthor)
	if serverAuth == nil {
		return
	}

	var req shared.CreatePostRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	ctx := r.Context()

	slug := req.Slug
	if slug == "" {
		slug = utils.Slugify(req.Title)
	}
	if slug == "" {
		writeValidationErrors(w, []shared.FieldError{{Field: "slug", Msg: "slug is required"}})
		return
	}

	if !h.checkCategory(ctx, w, req.CategoryId) {
		return
	}

	excerpt := req.Excerpt
	if excerpt == nil {
		e := utils.Excerpt(req.Content, utils.DefaultExcerptLength)
		excerpt = &e
	}

	status := req.Status
	if status == "" {
		status = shared.PostStatusDraft
	}

	post := &db.Post{
		Title:           req.Title,
		Slug:            slug,
		Content:         req.Content,
		Excerpt:         excerpt,
		FeaturedImage:   req.FeaturedImage,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		Status:          status,
		AuthorId:        serverAuth.UserId(),
		CategoryId:      req.CategoryId,
		Tags:            db.Tags(req.Tags),
	}
	if post.Tags == nil {
		post.Tags = db.Tags{}
	}
	if status == shared.PostStatusPublished {
		now := h.now()
		post.PublishedAt = &now
	}

	err := h.store.CreatePost(ctx, post)
	if err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			writeBadRequest(w, "Post with this slug already exists")
			return
		}
		writeServerError(w, "Error creating post", err)
		return
	}

	created, err := h.store.GetPost(ctx, post.Id)
	if err != nil {
		writeServerError(w, "Error getting post", err)
		return
	}
	if created == nil {
		writeNotFound(w, "Post not found")
		return
	}

	log.Println("Successfully processed request for CreatePostHandler")

	writeJson(w, http.StatusCreated, map[string]interface{}{
		"message": "Post created successfully",
		"post":    created.ToApi(),
	})
}

func (h *Handler) UpdatePostHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for UpdatePostHandler")
	serverAuth := h.authorize(w, r, shared.RoleAdmin, shared.RoleAuthor)
	if serverAuth == nil {
		return
	}

	id, ok := pathId(w, r, "id", "Post not found")
	if !ok {
		return
	}

	ctx := r.Context()

	post, err := h.store.GetPost(ctx, id)
	if err != nil {
		writeServerError(w, "Error getting post", err)
		return
	}
	if post == nil {
		writeNotFound(w, "Post not found")
		return
	}

	if !authorizeOwner(w, serverAuth, &post.AuthorId, shared.RoleAdmin) {
		return
	}

	var req shared.UpdatePostRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var errs []shared.FieldError
	errs = h.validateField(errs, "title", req.Title, "required,max=255")
	errs = h.validateField(errs, "slug", req.Slug, "slug")
	errs = h.validateField(errs, "content", req.Content, "required")
	if req.Status.Set && !req.Status.Null {
		switch req.Status.Value {
		case shared.PostStatusDraft, shared.PostStatusPublished:
		default:
			errs = append(errs, shared.FieldError{Field: "status", Msg: "status must be one of: draft, published"})
		}
	}
	if len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	if !h.checkCategory(ctx, w, req.CategoryId.Ptr()) {
		return
	}

	update := &db.PostUpdate{
		Title:           req.Title,
		Slug:            req.Slug,
		Content:         req.Content,
		Excerpt:         req.Excerpt,
		FeaturedImage:   req.FeaturedImage,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		CategoryId:      req.CategoryId,
		Status:          req.Status,
	}
	if req.Tags.Set {
		tags := req.Tags.Value
		if tags == nil {
			tags = []string{}
		}
		update.Tags = shared.Some(tags)
	}

	if req.Status.Set && req.Status.Value == shared.PostStatusPublished &&
		(h.config.RestampOnPublish || post.Status != shared.PostStatusPublished) {
		update.PublishedAt = shared.Some(h.now())
	}

	found, err := h.store.UpdatePost(ctx, id, update)
	if err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			writeBadRequest(w, "Post with this slug already exists")
			return
		}
		writeServerError(w, "Error updating post", err)
		return
	}
	if !found {
		writeNotFound(w, "Post not found")
		return
	}

	updated, err := h.store.GetPost(ctx, id)
	if err != nil {
		writeServerError(w, "Error getting post", err)
		return
	}
	if updated == nil {
		writeNotFound(w, "Post not found")
		return
	}

	log.Println("Successfully processed request for UpdatePostHandler")

	writeJson(w, http.StatusOK, map[string]interface{}{
		"message": "Post updated successfully",
		"post":    updated.ToApi(),
	})
}

func (h *Handler) DeletePostHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("Received a request for DeletePostHandler")
	serverAuth := h.authorize(w, r, shared.RoleAdmin, shared.RoleAuthor)
	if serverAuth == nil {
		return
	}

	id, ok := pathId(w, r, "id", "Post not found")
	if !ok {
		return
	}

	ctx := r.Context()

	post, err := h.store.GetPost(ctx, id)
	if err != nil {
		writeServerError(w, "Error getting post", err)
		return
	}
	if post == nil {
		writeNotFound(w, "Post not found")
		return
	}

	if !authorizeOwner(w, serverAuth, &post.AuthorId, shared.RoleAdmin) {
		return
	}

	_, err = h.store.DeletePost(ctx, id)
	if err != nil {
		writeServerError(w, "Error deleting post", err)
		return
	}

	log.Println("Successfully processed request for DeletePostHandler")

	writeMessage(w, http.StatusOK, "Post deleted successfully")
}
