package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/cmorran/watershed/pkg/delineate"
	"github.com/cmorran/watershed/pkg/hydrograph"
	"github.com/cmorran/watershed/pkg/logging"
	"github.com/cmorran/watershed/pkg/spatial"
	"github.com/cmorran/watershed/pkg/validation"
)

// DelineationResponse is the JSON body of a successful delineation.
type DelineationResponse struct {
	JobID     string              `json:"job_id"`
	Zone      string              `json:"zone"`
	StartUnit hydrograph.UnitID   `json:"start_unit"`
	Units     []hydrograph.UnitID `json:"units"`
	Count     int                 `json:"count"`
	Truncated bool                `json:"truncated"`
	ElapsedMS int64               `json:"elapsed_ms"`
}

// ErrorResponse is the JSON body of a failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// VersionResponse reports the service version and uptime.
type VersionResponse struct {
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

func (s *Server) handleDelineate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "use POST")
		return
	}

	var req validation.DelineationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if err := validation.ValidateDelineationRequest(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	maxUnits := s.maxUnits
	if req.MaxUnits > 0 && (maxUnits == 0 || req.MaxUnits < maxUnits) {
		maxUnits = req.MaxUnits
	}

	job, err := s.service.Run(r.Context(), delineate.Request{
		Point:    spatial.Point{Lon: req.Lon, Lat: req.Lat},
		MaxUnits: maxUnits,
	})
	if err != nil {
		switch {
		case errors.Is(err, spatial.ErrNoZone), errors.Is(err, spatial.ErrNoUnit):
			s.respondError(w, http.StatusNotFound, err.Error())
		default:
			s.logger.Error("delineation failed", logging.Error(err))
			s.respondError(w, http.StatusInternalServerError, "delineation failed")
		}
		return
	}

	s.respondJSON(w, http.StatusOK, DelineationResponse{
		JobID:     job.ID,
		Zone:      job.Zone,
		StartUnit: job.StartUnit,
		Units:     job.Result.Units(),
		Count:     job.Result.Count(),
		Truncated: job.Result.Truncated,
		ElapsedMS: job.Elapsed.Milliseconds(),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, VersionResponse{
		Version: s.version,
		Uptime:  time.Since(s.startTime).Round(time.Second).String(),
	})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("Error encoding JSON response", logging.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	response := ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	}
	s.respondJSON(w, status, response)
}
