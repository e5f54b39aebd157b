// Package serve runs the analyzer as a long-lived NDJSON server for editor
// integrations: one request per line on the input, one response per line
// on the output.
package serve

import (
	"bufio"
	"context"
	"encoding/json"
	"io"

	"github.com/bearkit/bearkit/pkg/analyzer"
	"github.com/bearkit/bearkit/pkg/logger"
	"github.com/bearkit/bearkit/pkg/profile"
	"github.com/bearkit/bearkit/pkg/types"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Version is the server protocol version
const Version = "1.0.0"

// Server answers analysis requests read from a stream.
type Server struct {
	analyzer *analyzer.Analyzer
	log      *zap.Logger
	encoder  *json.Encoder
	decoder  *json.Decoder
}

// NewServer creates a server reading requests from in and writing
// responses to out. log may be nil.
func NewServer(a *analyzer.Analyzer, log *zap.Logger, in io.Reader, out io.Writer) *Server {
	return &Server{
		analyzer: a,
		log:      logger.OrNop(log),
		encoder:  json.NewEncoder(out),
		decoder:  json.NewDecoder(bufio.NewReader(in)),
	}
}

// Run sends the ready message and serves requests until the input ends, a
// close request arrives or ctx is done.
func (s *Server) Run(ctx context.Context) error {
	if err := s.sendReady(); err != nil {
		return err
	}

	reqChan := make(chan Request, 1)
	errChan := make(chan error, 1)

	go func() {
		for {
			var req Request
			if err := s.decoder.Decode(&req); err != nil {
				errChan <- err
				return
			}
			select {
			case reqChan <- req:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errChan:
			// Requests decoded before the error are still answered.
			for {
				select {
				case req := <-reqChan:
					if s.processRequest(req) {
						return nil
					}
				default:
					if err == io.EOF {
						return nil
					}
					s.sendError("decode", err)
					return nil
				}
			}
		case req := <-reqChan:
			if s.processRequest(req) {
				return nil
			}
		}
	}
}

// processRequest handles a single request and returns true if the server should exit
func (s *Server) processRequest(req Request) bool {
	s.log.Debug("request", zap.String("type", req.Type))
	switch req.Type {
	case "analyze":
		s.handleAnalyze(req.Payload)
	case "analyze_batch":
		s.handleAnalyzeBatch(req.Payload)
	case "classify":
		s.handleClassify(req.Payload)
	case "close":
		return true
	default:
		s.sendError("unknown", errors.Newf("unknown request type: %s", req.Type))
	}
	return false
}

func (s *Server) sendReady() error {
	profiles := s.analyzer.Registry().All()
	ids := make([]string, len(profiles))
	for i, p := range profiles {
		ids[i] = p.ID
	}
	return errors.Wrap(s.send("ready", ReadyData{Version: Version, Profiles: ids}), "sending ready")
}

func (s *Server) handleAnalyze(payload json.RawMessage) {
	var p FilePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError("analyze", errors.Wrap(err, "decoding payload"))
		return
	}
	result, err := s.analyze(p)
	if err != nil {
		s.sendError("analyze", err)
		return
	}
	s.reply("analyze", result)
}

func (s *Server) handleAnalyzeBatch(payload json.RawMessage) {
	var p AnalyzeBatchPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError("analyze_batch", errors.Wrap(err, "decoding payload"))
		return
	}
	items := make([]BatchItem, len(p.Items))
	for i, item := range p.Items {
		items[i].Path = item.Path
		result, err := s.analyze(item)
		if err != nil {
			items[i].Error = err.Error()
			continue
		}
		items[i].AnalyzeResult = result
	}
	s.reply("analyze_batch", items)
}

func (s *Server) handleClassify(payload json.RawMessage) {
	var p FilePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError("classify", errors.Wrap(err, "decoding payload"))
		return
	}
	lang, err := s.resolve(p)
	if err != nil {
		s.sendError("classify", err)
		return
	}
	ranges, err := s.analyzer.Classify(p.Path, types.SplitLines(p.Content), lang)
	if err != nil {
		s.sendError("classify", err)
		return
	}
	s.reply("classify", ClassifyResult{
		Profile:  lang.ID,
		Strings:  nonNil(ranges.Strings),
		Comments: nonNil(ranges.Comments),
	})
}

// analyze runs the analyzer on one file. Without an explicit profile an
// undetectable language is reported as a diagnostic, as the check command
// does.
func (s *Server) analyze(p FilePayload) (*AnalyzeResult, error) {
	if p.Path == "" {
		return nil, errors.New("path is required")
	}
	var (
		rep *analyzer.FileReport
		err error
	)
	if p.Profile != "" {
		lang, rerr := s.resolve(p)
		if rerr != nil {
			return nil, rerr
		}
		rep, err = s.analyzer.AnalyzeFileAs(p.Path, []byte(p.Content), lang)
	} else {
		rep, err = s.analyzer.AnalyzeFile(p.Path, []byte(p.Content))
	}
	if err != nil {
		return nil, err
	}
	result := &AnalyzeResult{FileReport: rep}
	if rep.Changed() {
		result.Corrected = types.JoinLines(rep.Corrected)
	}
	return result, nil
}

// resolve returns the named profile, or detects one from the path.
func (s *Server) resolve(p FilePayload) (*profile.LexicalProfile, error) {
	registry := s.analyzer.Registry()
	if p.Profile != "" {
		return registry.Get(p.Profile)
	}
	if p.Path == "" {
		return nil, errors.New("path or profile is required")
	}
	return registry.Detect(p.Path, []byte(p.Content))
}

func (s *Server) reply(reqType string, data any) {
	if err := s.send(reqType, data); err != nil {
		s.log.Warn("writing response", zap.String("type", reqType), zap.Error(err))
	}
}

func (s *Server) send(reqType string, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return errors.Wrap(err, "encoding response")
	}
	return s.encoder.Encode(Response{
		Success: true,
		Type:    reqType,
		Data:    raw,
	})
}

func (s *Server) sendError(reqType string, err error) {
	s.log.Debug("request failed", zap.String("type", reqType), zap.Error(err))
	if encErr := s.encoder.Encode(Response{
		Success: false,
		Type:    reqType,
		Error:   err.Error(),
	}); encErr != nil {
		s.log.Warn("writing response", zap.String("type", reqType), zap.Error(encErr))
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
