// Package memstore is an in-memory db.Store used by handler tests and local
// runs without Postgres. It mirrors the constraints of the SQL schema: unique
// columns, cascades and SET NULL on delete.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"blogrig-server/db"
	"blogrig-server/shared"

	"github.com/pkg/errors"
)

type Store struct {
	mu  sync.Mutex
	now func() time.Time

	users      map[int64]*db.User
	categories map[int64]*db.Category
	posts      map[int64]*db.Post
	comments   map[int64]*db.Comment

	nextUser, nextCategory, nextPost, nextComment int64
}

var _ db.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		now:        func() time.Time { return time.Now().UTC() },
		users:      map[int64]*db.User{},
		categories: map[int64]*db.Category{},
		posts:      map[int64]*db.Post{},
		comments:   map[int64]*db.Comment{},
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return nil
}

func paginate[T any](rows []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(rows) {
		return []T{}
	}
	end := len(rows)
	if limit > 0 && limit < end-offset {
		end = offset + limit
	}
	return rows[offset:end]
}

func duplicate(what string) error {
	return errors.Wrap(db.ErrDuplicate, "error creating "+what)
}

// users

func (s *Store) GetUser(ctx context.Context, id int64) (*db.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, nil
}

func (s *Store) findUser(match func(*db.User) bool) *db.User {
	for _, u := range s.users {
		if match(u) {
			c := *u
			return &c
		}
	}
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*db.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findUser(func(u *db.User) bool { return u.Email == email }), nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*db.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findUser(func(u *db.User) bool { return u.Username == username }), nil
}

func (s *Store) ListUsers(ctx context.Context, limit, offset int) ([]*db.User, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]*db.User, 0, len(s.users))
	for _, u := range s.users {
		c := *u
		all = append(all, &c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Id < all[j].Id })

	return paginate(all, limit, offset), len(all), nil
}

func (s *Store) userConflict(id int64, username, email string) bool {
	for _, u := range s.users {
		if u.Id != id && (u.Username == username || u.Email == email) {
			return true
		}
	}
	return false
}

func (s *Store) CreateUser(ctx context.Context, user *db.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userConflict(0, user.Username, user.Email) {
		return duplicate("user")
	}
	if user.Role == "" {
		user.Role = shared.RoleUser
	}

	s.nextUser++
	user.Id = s.nextUser
	user.CreatedAt = s.now()
	user.UpdatedAt = user.CreatedAt

	c := *user
	s.users[user.Id] = &c
	return nil
}

func (s *Store) UpdateUser(ctx context.Context, id int64, update *db.UserUpdate) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[id]
	if !ok {
		return false, nil
	}
	u := *existing

	setNonNull(&u.Username, update.Username)
	setNonNull(&u.Email, update.Email)
	setNonNull(&u.Password, update.Password)
	setNonNull(&u.FirstName, update.FirstName)
	setNonNull(&u.LastName, update.LastName)
	setOptional(&u.Avatar, update.Avatar)
	setOptional(&u.Bio, update.Bio)
	setNonNull(&u.Role, update.Role)
	setNonNull(&u.IsActive, update.IsActive)

	if s.userConflict(id, u.Username, u.Email) {
		return false, errors.Wrap(db.ErrDuplicate, "error updating user")
	}

	u.UpdatedAt = s.now()
	s.users[id] = &u
	return true, nil
}

func (s *Store) DeleteUser(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return false, nil
	}
	delete(s.users, id)

	for pid, p := range s.posts {
		if p.AuthorId == id {
			s.deletePostLocked(pid)
		}
	}
	for _, c := range s.comments {
		if c.AuthorId != nil && *c.AuthorId == id {
			c.AuthorId = nil
		}
	}
	return true, nil
}

// categories

func (s *Store) ListCategories(ctx context.Context) ([]*db.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := map[int64]int{}
	for _, p := range s.posts {
		if p.CategoryId != nil && p.Status == shared.PostStatusPublished {
			counts[*p.CategoryId]++
		}
	}

	res := make([]*db.Category, 0, len(s.categories))
	for _, cat := range s.categories {
		c := *cat
		n := counts[c.Id]
		c.PostCount = &n
		res = append(res, &c)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Name < res[j].Name })
	return res, nil
}

func (s *Store) GetCategory(ctx context.Context, id int64) (*db.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cat, ok := s.categories[id]; ok {
		c := *cat
		return &c, nil
	}
	return nil, nil
}

func (s *Store) GetCategoryBySlug(ctx context.Context, slug string) (*db.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cat := range s.categories {
		if cat.Slug == slug {
			c := *cat
			return &c, nil
		}
	}
	return nil, nil
}

func (s *Store) categoryConflict(id int64, name, slug string) bool {
	for _, c := range s.categories {
		if c.Id != id && (c.Name == name || c.Slug == slug) {
			return true
		}
	}
	return false
}

func (s *Store) CreateCategory(ctx context.Context, category *db.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.categoryConflict(0, category.Name, category.Slug) {
		return duplicate("category")
	}

	s.nextCategory++
	category.Id = s.nextCategory
	category.CreatedAt = s.now()
	category.UpdatedAt = category.CreatedAt

	c := *category
	c.PostCount = nil
	s.categories[c.Id] = &c
	return nil
}

func (s *Store) UpdateCategory(ctx context.Context, id int64, update *db.CategoryUpdate) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.categories[id]
	if !ok {
		return false, nil
	}
	c := *existing

	setNonNull(&c.Name, update.Name)
	setNonNull(&c.Slug, update.Slug)
	setOptional(&c.Description, update.Description)

	if s.categoryConflict(id, c.Name, c.Slug) {
		return false, errors.Wrap(db.ErrDuplicate, "error updating category")
	}

	c.UpdatedAt = s.now()
	s.categories[id] = &c
	return true, nil
}

func (s *Store) DeleteCategory(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[id]; !ok {
		return false, nil
	}
	delete(s.categories, id)

	for _, p := range s.posts {
		if p.CategoryId != nil && *p.CategoryId == id {
			p.CategoryId = nil
		}
	}
	return true, nil
}

// posts

// joinPost copies a post and fills the joined author and category columns.
func (s *Store) joinPost(p *db.Post) *db.Post {
	c := *p
	c.Tags = append(db.Tags{}, p.Tags...)
	c.AuthorName, c.AuthorAvatar, c.CategoryName, c.CategorySlug = nil, nil, nil, nil

	if u, ok := s.users[p.AuthorId]; ok {
		name := u.Username
		c.AuthorName = &name
		c.AuthorAvatar = u.Avatar
	}
	if p.CategoryId != nil {
		if cat, ok := s.categories[*p.CategoryId]; ok {
			name, slug := cat.Name, cat.Slug
			c.CategoryName = &name
			c.CategorySlug = &slug
		}
	}
	return &c
}

func matchesPost(p *db.Post, filter db.PostFilter) bool {
	if filter.Status != "" && string(p.Status) != filter.Status {
		return false
	}
	if filter.CategorySlug != "" && (p.CategorySlug == nil || *p.CategorySlug != filter.CategorySlug) {
		return false
	}
	if filter.AuthorUsername != "" && (p.AuthorName == nil || *p.AuthorName != filter.AuthorUsername) {
		return false
	}
	if filter.Search != "" {
		q := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(p.Title), q) && !strings.Contains(strings.ToLower(p.Content), q) {
			return false
		}
	}
	return true
}

func (s *Store) ListPosts(ctx context.Context, filter db.PostFilter) ([]*db.Post, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := []*db.Post{}
	for _, p := range s.posts {
		joined := s.joinPost(p)
		if matchesPost(joined, filter) {
			all = append(all, joined)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].Id > all[j].Id
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	return paginate(all, filter.Limit, filter.Offset), len(all), nil
}

func (s *Store) ListPopularPosts(ctx context.Context, limit int) ([]*db.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := []*db.Post{}
	for _, p := range s.posts {
		if p.Status == shared.PostStatusPublished {
			all = append(all, s.joinPost(p))
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].ViewCount == all[j].ViewCount {
			return all[i].Id > all[j].Id
		}
		return all[i].ViewCount > all[j].ViewCount
	})

	return paginate(all, limit, 0), nil
}

func (s *Store) GetPost(ctx context.Context, id int64) (*db.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.posts[id]; ok {
		return s.joinPost(p), nil
	}
	return nil, nil
}

func (s *Store) GetPostBySlug(ctx context.Context, slug string) (*db.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.posts {
		if p.Slug == slug {
			return s.joinPost(p), nil
		}
	}
	return nil, nil
}

func (s *Store) postConflict(id int64, slug string) bool {
	for _, p := range s.posts {
		if p.Id != id && p.Slug == slug {
			return true
		}
	}
	return false
}

func (s *Store) CreatePost(ctx context.Context, post *db.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.postConflict(0, post.Slug) {
		return duplicate("post")
	}
	if _, ok := s.users[post.AuthorId]; !ok {
		return errors.New("error creating post: author does not exist")
	}
	if post.Status == "" {
		post.Status = shared.PostStatusDraft
	}
	if post.Tags == nil {
		post.Tags = db.Tags{}
	}

	s.nextPost++
	post.Id = s.nextPost
	post.CreatedAt = s.now()
	post.UpdatedAt = post.CreatedAt

	c := *post
	s.posts[c.Id] = &c
	return nil
}

func (s *Store) UpdatePost(ctx context.Context, id int64, update *db.PostUpdate) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.posts[id]
	if !ok {
		return false, nil
	}
	p := *existing

	setNonNull(&p.Title, update.Title)
	setNonNull(&p.Slug, update.Slug)
	setNonNull(&p.Content, update.Content)
	setOptional(&p.Excerpt, update.Excerpt)
	setOptional(&p.FeaturedImage, update.FeaturedImage)
	setOptional(&p.MetaTitle, update.MetaTitle)
	setOptional(&p.MetaDescription, update.MetaDescription)
	setOptional(&p.CategoryId, update.CategoryId)
	if update.Tags.Set {
		p.Tags = append(db.Tags{}, update.Tags.Value...)
	}
	setNonNull(&p.Status, update.Status)
	if update.PublishedAt.Set && !update.PublishedAt.Null {
		t := update.PublishedAt.Value
		p.PublishedAt = &t
	}

	if s.postConflict(id, p.Slug) {
		return false, errors.Wrap(db.ErrDuplicate, "error updating post")
	}

	p.UpdatedAt = s.now()
	s.posts[id] = &p
	return true, nil
}

func (s *Store) IncrementPostViews(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.posts[id]; ok {
		p.ViewCount++
	}
	return nil
}

func (s *Store) deletePostLocked(id int64) {
	delete(s.posts, id)
	for cid, c := range s.comments {
		if c.PostId == id {
			delete(s.comments, cid)
		}
	}
}

func (s *Store) DeletePost(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return false, nil
	}
	s.deletePostLocked(id)
	return true, nil
}

// comments

func (s *Store) joinComment(c *db.Comment) *db.Comment {
	res := *c
	res.AuthorAvatar = nil
	if c.AuthorId != nil {
		if u, ok := s.users[*c.AuthorId]; ok {
			name := u.Username
			res.AuthorName = &name
			res.AuthorAvatar = u.Avatar
		}
	}
	return &res
}

func (s *Store) ListApprovedComments(ctx context.Context, postId int64) ([]*db.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := []*db.Comment{}
	for _, c := range s.comments {
		if c.PostId == postId && c.Status == shared.CommentStatusApproved {
			res = append(res, s.joinComment(c))
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].Id > res[j].Id
		}
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})
	return res, nil
}

func (s *Store) ListComments(ctx context.Context, filter db.CommentFilter) ([]*db.Comment, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := []*db.Comment{}
	for _, c := range s.comments {
		if filter.Status != "" && string(c.Status) != filter.Status {
			continue
		}
		if filter.PostId != 0 && c.PostId != filter.PostId {
			continue
		}
		all = append(all, s.joinComment(c))
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].Id > all[j].Id
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	return paginate(all, filter.Limit, filter.Offset), len(all), nil
}

func (s *Store) GetComment(ctx context.Context, id int64) (*db.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.comments[id]; ok {
		return s.joinComment(c), nil
	}
	return nil, nil
}

func (s *Store) CreateComment(ctx context.Context, comment *db.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[comment.PostId]; !ok {
		return errors.New("error creating comment: post does not exist")
	}
	if comment.ParentId != nil {
		if _, ok := s.comments[*comment.ParentId]; !ok {
			return errors.New("error creating comment: parent does not exist")
		}
	}
	if comment.Status == "" {
		comment.Status = shared.CommentStatusPending
	}

	s.nextComment++
	comment.Id = s.nextComment
	comment.CreatedAt = s.now()
	comment.UpdatedAt = comment.CreatedAt

	c := *comment
	c.AuthorAvatar = nil
	s.comments[c.Id] = &c
	return nil
}

func (s *Store) UpdateCommentContent(ctx context.Context, id int64, content string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[id]
	if !ok {
		return false, nil
	}
	c.Content = content
	c.UpdatedAt = s.now()
	return true, nil
}

func (s *Store) UpdateCommentStatus(ctx context.Context, id int64, status shared.CommentStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[id]
	if !ok {
		return false, nil
	}
	c.Status = status
	c.UpdatedAt = s.now()
	return true, nil
}

func (s *Store) DeleteComment(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.comments[id]; !ok {
		return false, nil
	}
	s.deleteCommentLocked(id)
	return true, nil
}

func (s *Store) deleteCommentLocked(id int64) {
	delete(s.comments, id)
	for cid, c := range s.comments {
		if c.ParentId != nil && *c.ParentId == id {
			s.deleteCommentLocked(cid)
		}
	}
}

func setNonNull[T any](dst *T, o shared.Optional[T]) {
	if o.Set && !o.Null {
		*dst = o.Value
	}
}

func setOptional[T any](dst **T, o shared.Optional[T]) {
	if !o.Set {
		return
	}
	*dst = o.Ptr()
}
