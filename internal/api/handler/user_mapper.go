package handler

import (
	"github.com/smartwaste/waste-api/internal/core/domain"
	"github.com/smartwaste/waste-api/internal/core/ports"
)

// --- Request → domain input ---

func toRegistration(req registerRequest) domain.Registration {
	return domain.Registration{
		Role:     req.Role,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: domain.NewPlainPassword(req.Password),
		ProfileFields: domain.ProfileFields{
			Address:    req.Address,
			Location:   req.Location,
			License:    req.License,
			Vehicle:    req.Vehicle,
			Department: req.Department,
		},
	}
}

func toProfilePatch(req updateProfileRequest) domain.ProfilePatch {
	patch := domain.ProfilePatch{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Address:    req.Address,
		Location:   req.Location,
		License:    req.License,
		Vehicle:    req.Vehicle,
		Department: req.Department,
	}
	if req.Password != nil {
		pw := domain.NewPlainPassword(*req.Password)
		patch.Password = &pw
	}
	return patch
}

// --- Service result → response ---

func toAuthResponse(message string, res *ports.AuthResult) authResponse {
	return authResponse{
		Message: message,
		Token:   res.Token,
		Role:    res.User.Role(),
		User:    res.User.Public(),
	}
}
