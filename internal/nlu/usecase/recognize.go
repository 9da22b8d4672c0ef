package usecase

import (
	"context"
	"strings"

	"nlu-service/internal/model"
	"nlu-service/internal/nlu"
	"nlu-service/internal/rules"
)

// pathClassify marks the stage-1 domain classification task, which is not a
// result path itself: its completion spawns the stage-2 race.
const pathClassify = "classify"

// pathResult is one concurrent path's completion. ok means the result met
// its threshold; a not-ok completion only frees the path's slot in the race.
type pathResult struct {
	method string
	domain string // set by the classify task
	data   model.IntentData
	ok     bool
}

// methodRank orders simultaneously-available results:
// regex_global > regex_domain > model.
func methodRank(method string) int {
	switch method {
	case model.MethodRegexGlobal:
		return 0
	case model.MethodRegexDomain:
		return 1
	case model.MethodModel:
		return 2
	default:
		return 3
	}
}

// Recognize races the recognition paths and returns the first acceptable
// result. With no caller-supplied domain the full flow runs: global regex
// and domain classification start together, and the resolved domain spawns
// the domain-regex and model paths while the global pass may still be live.
func (uc *implUseCase) Recognize(ctx context.Context, input nlu.RecognizeInput) (model.IntentData, error) {
	if strings.TrimSpace(input.Text) == "" {
		return model.NoneResult(input.Text, uc.cfg.FallbackDomain), nil
	}

	if uc.cfg.RecognizeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.cfg.RecognizeTimeout)
		defer cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Buffered for the maximum number of concurrent tasks, so a cancelled
	// collector never blocks a finishing path.
	results := make(chan pathResult, 4)
	expected := 2

	if input.Domain != "" {
		// Fast path: the caller committed to a domain, only stage 2 runs.
		go uc.runDomainRegex(ctx, input.Text, input.Domain, results)
		go uc.runModel(ctx, input.Text, input.Domain, results)
	} else {
		go uc.runGlobalRegex(ctx, input.Text, results)
		go uc.runClassify(ctx, input.Text, results)
	}

	resolvedDomain := input.Domain

	for done := 0; done < expected; {
		select {
		case res := <-results:
			done++

			if res.method == pathClassify {
				resolvedDomain = res.domain
				if resolvedDomain == "" {
					resolvedDomain = uc.cfg.FallbackDomain
				}
				expected += 2
				go uc.runDomainRegex(ctx, input.Text, resolvedDomain, results)
				go uc.runModel(ctx, input.Text, resolvedDomain, results)
				continue
			}

			if !res.ok {
				continue
			}

			// Give same-instant completions a deterministic precedence:
			// drain whatever is already buffered and keep the best-ranked.
			best := res
			for drained := false; !drained; {
				select {
				case extra := <-results:
					done++
					if extra.ok && methodRank(extra.method) < methodRank(best.method) {
						best = extra
					}
				default:
					drained = true
				}
			}

			cancel()
			return uc.shapeResult(best, input.Text, resolvedDomain), nil

		case <-ctx.Done():
			// Deadline or caller cancellation: behave as if every path came
			// back unacceptable.
			return model.NoneResult(input.Text, uc.fallbackOr(resolvedDomain)), nil
		}
	}

	return model.NoneResult(input.Text, uc.fallbackOr(resolvedDomain)), nil
}

func (uc *implUseCase) fallbackOr(domain string) string {
	if domain == "" {
		return uc.cfg.FallbackDomain
	}
	return domain
}

// shapeResult finalizes a winning path result: pseudo-domains are replaced
// by the resolved or fallback domain and empty maps are dropped so they are
// omitted from JSON.
func (uc *implUseCase) shapeResult(res pathResult, text, resolvedDomain string) model.IntentData {
	data := res.data
	if data.Domain == "" || data.Domain == rules.GlobalDomain {
		data.Domain = uc.fallbackOr(resolvedDomain)
	}
	if len(data.Semantic) == 0 {
		data.Semantic = nil
	}
	if len(data.Entities) == 0 {
		data.Entities = nil
	}
	data.RawText = text
	return data
}

// runGlobalRegex is path G: the global regex pass over every domain.
func (uc *implUseCase) runGlobalRegex(ctx context.Context, text string, out chan<- pathResult) {
	defer uc.recoverPath(ctx, model.MethodRegexGlobal, out)

	res, matched := uc.rules.Match(ctx, text, "")
	out <- uc.regexResult(model.MethodRegexGlobal, text, res, matched)
}

// runDomainRegex is path R: the regex pass restricted to one domain.
func (uc *implUseCase) runDomainRegex(ctx context.Context, text, domain string, out chan<- pathResult) {
	defer uc.recoverPath(ctx, model.MethodRegexDomain, out)

	res, matched := uc.rules.Match(ctx, text, domain)
	out <- uc.regexResult(model.MethodRegexDomain, text, res, matched)
}

func (uc *implUseCase) regexResult(method, text string, res rules.Result, matched bool) pathResult {
	if !matched {
		return pathResult{method: method}
	}
	return pathResult{
		method: method,
		ok:     res.Confidence >= uc.cfg.ConfidenceThreshold,
		data: model.IntentData{
			Intent:     res.Intent,
			Domain:     res.Domain,
			Semantic:   res.Semantic,
			Entities:   res.Entities,
			Confidence: res.Confidence,
			RawText:    text,
			Method:     method,
		},
	}
}

// runClassify is task D: domain classification. Its failure degrades to the
// fallback domain so stage 2 still runs.
func (uc *implUseCase) runClassify(ctx context.Context, text string, out chan<- pathResult) {
	defer uc.recoverPath(ctx, pathClassify, out)

	pred, err := uc.classifier.Classify(ctx, text)
	if err != nil {
		if ctx.Err() == nil {
			uc.l.Warnf(ctx, "domain classification failed: %v", err)
		}
		out <- pathResult{method: pathClassify}
		return
	}
	out <- pathResult{method: pathClassify, domain: pred.Domain}
}

// runModel is path M: the intent matcher restricted to one domain.
func (uc *implUseCase) runModel(ctx context.Context, text, domain string, out chan<- pathResult) {
	defer uc.recoverPath(ctx, model.MethodModel, out)

	pred, err := uc.intents.Predict(ctx, text, domain)
	if err != nil {
		if ctx.Err() == nil {
			uc.l.Warnf(ctx, "intent prediction failed: %v", err)
		}
		out <- pathResult{method: model.MethodModel}
		return
	}

	ok := pred.Intent != model.FallbackIntent && pred.Confidence >= uc.cfg.SimilarityThreshold
	out <- pathResult{
		method: model.MethodModel,
		ok:     ok,
		data: model.IntentData{
			Intent:     pred.Intent,
			Domain:     domain,
			Semantic:   pred.Semantic,
			Entities:   pred.Entities,
			Confidence: pred.Confidence,
			RawText:    text,
			Method:     model.MethodModel,
		},
	}
}

// recoverPath keeps a panicking path from killing the request; the path
// simply yields no result.
func (uc *implUseCase) recoverPath(ctx context.Context, method string, out chan<- pathResult) {
	if r := recover(); r != nil {
		uc.l.Errorf(ctx, "recognition path %s panicked: %v", method, r)
		out <- pathResult{method: method}
	}
}
