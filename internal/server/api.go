package server

import (
	"encoding/json"
	"github.com/packagewjx/tensorprep/internal/batch"
	"github.com/packagewjx/tensorprep/internal/drawer"
	"github.com/packagewjx/tensorprep/internal/store"
	"github.com/packagewjx/tensorprep/pkg/core"
	"github.com/pkg/errors"
	"net/http"
	"strconv"
	"time"
)

// PreprocessRequest is the body of POST /preprocess. The response is the
// processed array in the same encoding.
type PreprocessRequest struct {
	core.ArrayJSON
	Metadata core.Metadata `json:"metadata,omitempty"`
}

const anonymousIdentifier = "http"

func (s *serverImpl) handlePreprocess(writer http.ResponseWriter, request *http.Request) {
	if request.Method != http.MethodPost {
		writer.Header().Set("Allow", http.MethodPost)
		http.Error(writer, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body := http.MaxBytesReader(writer, request.Body, s.config.MaxBodyBytes)
	req := &PreprocessRequest{}
	if err := json.NewDecoder(body).Decode(req); err != nil {
		http.Error(writer, "decoding request: "+err.Error(), http.StatusBadRequest)
		return
	}
	data, err := req.Array()
	if err != nil {
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Metadata == nil {
		req.Metadata = core.Metadata{}
	}

	start := time.Now()
	out, err := s.pipeline.Apply(data, req.Metadata)
	if err != nil {
		s.logger.Printf("processing %v failed: %v", data, err)
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}
	elapsed := time.Since(start)

	marshal, err := json.Marshal(out)
	if errors.Is(err, core.ErrInvalidArray) {
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	} else if err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	if s.dao != nil {
		identifier, ok := req.Metadata[batch.MetadataIdentifier].(string)
		if !ok || identifier == "" {
			identifier = anonymousIdentifier
		}
		if err := s.dao.SaveRunRecord(store.NewRunRecord(identifier, s.pipeline.Name(), out, elapsed)); err != nil {
			s.logger.Printf("saving run record failed: %v", err)
		}
	}

	writer.Header().Set("Content-Type", "application/json")
	_, _ = writer.Write(marshal)
}

func (s *serverImpl) handlePipeline(writer http.ResponseWriter, request *http.Request) {
	writer.Header().Set("Content-Type", "text/vnd.graphviz")
	if err := drawer.Draw(s.pipeline, writer); err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
	}
}

// handleRecords lists run records, of one identifier when the identifier
// query parameter is given, otherwise the latest ones.
func (s *serverImpl) handleRecords(writer http.ResponseWriter, request *http.Request) {
	if s.dao == nil {
		http.NotFound(writer, request)
		return
	}

	var records []*store.RunRecord
	var err error
	if identifier := request.URL.Query().Get("identifier"); identifier != "" {
		records, err = s.dao.QueryRunRecordsByIdentifier(identifier)
	} else {
		limit := DefaultRecordLimit
		if l := request.URL.Query().Get("limit"); l != "" {
			limit, err = strconv.Atoi(l)
			if err != nil || limit <= 0 {
				http.Error(writer, "limit must be a positive integer", http.StatusBadRequest)
				return
			}
		}
		records, err = s.dao.QueryRecentRunRecords(limit)
	}
	if err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	marshal, err := json.Marshal(records)
	if err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
	writer.Header().Set("Content-Type", "application/json")
	_, _ = writer.Write(marshal)
}
