// Package access centralizes capability checks shared by the service layer.
package access

import "guildboard/internal/models"

// CanCreatePost reports whether the user may author posts. Membership in
// the authors group is granted at signup; admins qualify as well.
func CanCreatePost(u *models.User) bool {
	if u == nil {
		return false
	}
	return u.InGroup(models.GroupAuthors) || u.InGroup(models.GroupAdmin)
}

// CanCreateResponse reports whether the user may submit responses. The
// same authors group gates responses and posts.
func CanCreateResponse(u *models.User) bool {
	return CanCreatePost(u)
}

// IsAdmin reports whether the user belongs to the admin group.
func IsAdmin(u *models.User) bool {
	return u != nil && u.InGroup(models.GroupAdmin)
}

// CanModeratePost reports whether the user may accept or reject responses
// on the given post. Only the post's author or an admin may do so.
func CanModeratePost(u *models.User, post *models.Post) bool {
	if u == nil || post == nil {
		return false
	}
	if IsAdmin(u) {
		return true
	}
	return post.Author.UserID == u.ID
}

// CanEditPost reports whether the user may modify or delete the post.
func CanEditPost(u *models.User, post *models.Post) bool {
	return CanModeratePost(u, post)
}

// CanEditResponse reports whether the user may modify or delete the
// response. The response's own author or an admin may do so.
func CanEditResponse(u *models.User, resp *models.Response) bool {
	if u == nil || resp == nil {
		return false
	}
	return resp.UserID == u.ID || IsAdmin(u)
}
