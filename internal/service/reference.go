package service

import "github.com/deppfellow/hms-backend/internal/model"

// The reference catalog is fixed and ordered as shown on the landing page.
var (
	serviceCatalog = []model.Service{
		{Title: "Emergency Care", Description: "24/7 critical care with rapid response.", Icon: "Activity"},
		{Title: "Surgery", Description: "Advanced surgical procedures by experts.", Icon: "Scalpel"},
		{Title: "Diagnostics", Description: "Modern imaging and lab diagnostics.", Icon: "ScanLine"},
		{Title: "Pharmacy", Description: "On-site pharmacy with verified medicines.", Icon: "Pill"},
	}

	departmentCatalog = []model.Department{
		{Name: "Cardiology", Description: "Heart and vascular care."},
		{Name: "Neurology", Description: "Brain and nervous system."},
		{Name: "Pediatrics", Description: "Child health and wellness."},
		{Name: "Orthopedics", Description: "Bones and joints."},
		{Name: "Oncology", Description: "Cancer care."},
		{Name: "Dermatology", Description: "Skin care."},
	}

	doctorCatalog = []model.Doctor{
		{Name: "Dr. Sarah Johnson", Specialization: "Cardiologist", Photo: "https://images.unsplash.com/photo-1550831107-1553da8c8464?w=640&q=80"},
		{Name: "Dr. Amit Verma", Specialization: "Neurologist", Photo: "https://images.unsplash.com/photo-1606813907291-76b6619b8e0e?w=640&q=80"},
		{Name: "Dr. Emily Chen", Specialization: "Pediatrician", Photo: "https://images.unsplash.com/photo-1551601651-2a8555f1a136?w=640&q=80"},
		{Name: "Dr. Lucas Brown", Specialization: "Orthopedic Surgeon", Photo: "https://images.unsplash.com/photo-1537368910025-700350fe46c7?w=640&q=80"},
	}
)

// ReferenceService serves the read-only lists. Every call returns a fresh
// copy so callers cannot change the catalog.
type ReferenceService struct{}

func NewReferenceService() *ReferenceService {
	return &ReferenceService{}
}

func (s *ReferenceService) Services() []model.Service {
	return append([]model.Service(nil), serviceCatalog...)
}

func (s *ReferenceService) Departments() []model.Department {
	return append([]model.Department(nil), departmentCatalog...)
}

func (s *ReferenceService) Doctors() []model.Doctor {
	return append([]model.Doctor(nil), doctorCatalog...)
}
