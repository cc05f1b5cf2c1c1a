package httpserver

import (
	"net/http"

	"healside/internal/domain"
	blogrepo "healside/internal/repository/blog"
	"github.com/gin-gonic/gin"
)

func (h *handlers) listBlogPosts(c *gin.Context) {
	posts, err := h.deps.Blog.ListPublished(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if posts == nil {
		posts = []domain.BlogPost{}
	}
	c.JSON(http.StatusOK, posts)
}

func (h *handlers) getBlogPost(c *gin.Context) {
	post, err := h.deps.Blog.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

type createBlogPostRequest struct {
	Title    string `json:"title" binding:"required"`
	Slug     string `json:"slug"`
	Excerpt  string `json:"excerpt"`
	Content  string `json:"content" binding:"required"`
	ImageURL string `json:"imageUrl"`
}

func (h *handlers) createBlogPost(c *gin.Context) {
	var req createBlogPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "title and content required")
		return
	}
	post, err := h.deps.Blog.Create(c.Request.Context(), domain.BlogPost{
		Title:     req.Title,
		Slug:      req.Slug,
		Excerpt:   req.Excerpt,
		Content:   req.Content,
		ImageURL:  req.ImageURL,
		Published: true,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

type updateBlogPostRequest struct {
	Title     *string `json:"title"`
	Slug      *string `json:"slug"`
	Excerpt   *string `json:"excerpt"`
	Content   *string `json:"content"`
	ImageURL  *string `json:"imageUrl"`
	Published *bool   `json:"published"`
}

func (h *handlers) updateBlogPost(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateBlogPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	post, err := h.deps.Blog.Update(c.Request.Context(), id, blogrepo.UpdateInput{
		Title:     req.Title,
		Slug:      req.Slug,
		Excerpt:   req.Excerpt,
		Content:   req.Content,
		ImageURL:  req.ImageURL,
		Published: req.Published,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *handlers) deleteBlogPost(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.deps.Blog.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// listExternalPosts serves syndicated articles from the local cache only;
// the upstream feed is never contacted on a read.
func (h *handlers) listExternalPosts(c *gin.Context) {
	posts, err := h.deps.Feed.Query(c.Request.Context(), c.Query("source"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if posts == nil {
		posts = []domain.ExternalPost{}
	}
	c.JSON(http.StatusOK, posts)
}

func (h *handlers) getExternalPost(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	post, err := h.deps.Feed.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

type syncExternalPostsRequest struct {
	FeedURL string `json:"feedUrl"`
	Source  string `json:"source"`
}

// syncExternalPosts triggers a feed ingestion. With no body it falls back to
// the configured default feed.
func (h *handlers) syncExternalPosts(c *gin.Context) {
	var req syncExternalPostsRequest
	_ = c.ShouldBindJSON(&req)

	feedURL := req.FeedURL
	source := req.Source
	if feedURL == "" {
		feedURL = h.deps.FeedURL
		source = h.deps.FeedSource
	}
	if feedURL == "" {
		badRequest(c, "no feed configured; supply feedUrl")
		return
	}
	if source == "" {
		source = h.deps.FeedSource
	}

	posts, err := h.deps.Feed.Ingest(c.Request.Context(), feedURL, source)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingested": len(posts), "posts": posts})
}
