package shared

import "time"

type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3,username"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6,password"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    *User  `json:"user"`
}

type CreateUserRequest struct {
	RegisterRequest
	Role Role `json:"role" validate:"omitempty,oneof=admin author user"`
}

type UpdateUserRequest struct {
	Username  Optional[string] `json:"username"`
	Email     Optional[string] `json:"email"`
	Password  Optional[string] `json:"password"`
	FirstName Optional[string] `json:"first_name"`
	LastName  Optional[string] `json:"last_name"`
	Avatar    Optional[string] `json:"avatar"`
	Bio       Optional[string] `json:"bio"`
	Role      Optional[Role]   `json:"role"`
	IsActive  Optional[bool]   `json:"is_active"`
}

type ListUsersResponse struct {
	Users      []*User    `json:"users"`
	Pagination Pagination `json:"pagination"`
}

type CreateCategoryRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Slug        string  `json:"slug" validate:"omitempty,slug"`
	Description *string `json:"description"`
}

type UpdateCategoryRequest struct {
	Name        Optional[string] `json:"name"`
	Slug        Optional[string] `json:"slug"`
	Description Optional[string] `json:"description"`
}

type CreatePostRequest struct {
	Title           string     `json:"title" validate:"required,max=255"`
	Slug            string     `json:"slug" validate:"omitempty,slug"`
	Content         string     `json:"content" validate:"required"`
	Excerpt         *string    `json:"excerpt"`
	FeaturedImage   *string    `json:"featured_image"`
	MetaTitle       *string    `json:"meta_title"`
	MetaDescription *string    `json:"meta_description"`
	CategoryId      *int64     `json:"category_id"`
	Tags            []string   `json:"tags"`
	Status          PostStatus `json:"status" validate:"omitempty,oneof=draft published"`
}

type UpdatePostRequest struct {
	Title           Optional[string]     `json:"title"`
	Slug            Optional[string]     `json:"slug"`
	Content         Optional[string]     `json:"content"`
	Excerpt         Optional[string]     `json:"excerpt"`
	FeaturedImage   Optional[string]     `json:"featured_image"`
	MetaTitle       Optional[string]     `json:"meta_title"`
	MetaDescription Optional[string]     `json:"meta_description"`
	CategoryId      Optional[int64]      `json:"category_id"`
	Tags            Optional[[]string]   `json:"tags"`
	Status          Optional[PostStatus] `json:"status"`
}

type ListPostsResponse struct {
	Posts      []*Post    `json:"posts"`
	Pagination Pagination `json:"pagination"`
}

type CreateCommentRequest struct {
	PostId      int64   `json:"post_id" validate:"required"`
	Content     string  `json:"content" validate:"required"`
	ParentId    *int64  `json:"parent_id"`
	AuthorName  *string `json:"author_name" validate:"omitempty,min=1"`
	AuthorEmail *string `json:"author_email" validate:"omitempty,email"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

type UpdateCommentStatusRequest struct {
	Status CommentStatus `json:"status" validate:"required,oneof=pending approved rejected"`
}

type ListCommentsResponse struct {
	Comments   []*Comment  `json:"comments"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

type SentEmail struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
}

type SendEmailResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	MessageId string    `json:"messageId"`
	SentEmail SentEmail `json:"sentEmail"`
	Provider  string    `json:"provider"`
}

type SendEmailErrorResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Error    string `json:"error"`
	Provider string `json:"provider"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
