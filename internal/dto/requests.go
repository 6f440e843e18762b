package dto

// JoinClassroomRequest is the bridge payload for joining by code.
type JoinClassroomRequest struct {
	Code string `json:"code" binding:"required"`
}

// UpdateProfileRequest updates cached profile fields; nil fields are left alone.
type UpdateProfileRequest struct {
	Name  *string `json:"name"`
	Image *string `json:"image"`
}

// ThemeRequest sets the theme preference.
type ThemeRequest struct {
	Theme string `json:"theme" binding:"required,oneof=light dark"`
}

// RemoteJoinRequest is the body of POST /classrooms/memberships.
type RemoteJoinRequest struct {
	ClassCode string `json:"classCode"`
}
