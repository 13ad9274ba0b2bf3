package text

import (
	"iter"
	"strings"
	"sync"
	"unicode"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// PhraseMarker is typed by recording people into the text to break sentence
// into several audio segments.
const PhraseMarker = '|'

type Splitter struct {
	*sentences.DefaultSentenceTokenizer
}

// NewSplitter returns sentence splitter for the language. English gets
// trained model, everything else gets punctuation only tokenizer which still
// knows about abbreviations ending with period followed by lower case.
func NewSplitter(lang language.Tag, log *zap.Logger) *Splitter {
	base, confidence := lang.Base()
	if confidence == language.No {
		log.Warn("Unable to determine language base, using generic sentence tokenizer", zap.Stringer("tag", lang))
		return &Splitter{sentences.NewSentenceTokenizer(sentences.NewStorage())}
	}

	if en, _ := language.English.Base(); base == en {
		tok, err := english.NewSentenceTokenizer(nil)
		if err == nil {
			return &Splitter{tok}
		}
		log.Warn("Unable to load english sentences tokenizer data", zap.Stringer("tag", lang), zap.Error(err))
	}

	log.Debug("Using generic sentence tokenizer",
		zap.Stringer("tag", lang),
		zap.String("language", display.English.Languages().Name(lang)))
	return &Splitter{sentences.NewSentenceTokenizer(sentences.NewStorage())}
}

// Split returns slice of sentences.
// For memory-efficient streaming, use Sentences iterator instead.
func (s *Splitter) Split(in string) []string {
	var result []string
	for sentence := range s.Sentences(in) {
		result = append(result, sentence)
	}
	return result
}

// Sentences returns an iterator over sentences. Concatenation of all
// sentences is always equal to the input.
func (s *Splitter) Sentences(in string) iter.Seq[string] {
	return func(yield func(string) bool) {
		if len(in) == 0 {
			return
		}
		if s == nil {
			// sentences tokenizer is off
			yield(in)
			return
		}

		sentences := s.Tokenize(in)
		if len(sentences) == 0 {
			return
		}

		// Sentences tokenizer has a funny way of working - sentence
		// trailing spaces belong to the next sentence. Audio segments
		// should start with a word, so move leading spaces from next
		// sentence to current one here instead
		for i := 0; i < len(sentences)-1; i++ {
			text := sentences[i].Text
			nextText := sentences[i+1].Text
			for idx, sym := range nextText {
				if !unicode.IsSpace(sym) {
					text = text + nextText[0:idx]
					sentences[i+1].Text = nextText[idx:]
					break
				}
			}
			if !yield(text) {
				return
			}
		}
		yield(sentences[len(sentences)-1].Text)
	}
}

// Fragments splits text into pieces recorded as separate audio segments:
// sentences further divided at phrase markers. A fragment ended by a marker
// keeps it as the last non space character, leading white space goes to the
// previous fragment.
func (s *Splitter) Fragments(in string) []string {
	var result []string
	for sentence := range s.Sentences(in) {
		for piece := range strings.SplitAfterSeq(sentence, string(PhraseMarker)) {
			if piece == "" {
				continue
			}
			if len(result) > 0 {
				trimmed := strings.TrimLeftFunc(piece, unicode.IsSpace)
				result[len(result)-1] += piece[:len(piece)-len(trimmed)]
				if piece = trimmed; piece == "" {
					continue
				}
			}
			result = append(result, piece)
		}
	}
	return result
}

// Splitters keeps one splitter per language and is safe for concurrent use.
type Splitters struct {
	mu       sync.Mutex
	fallback language.Tag
	cache    map[string]*Splitter
	log      *zap.Logger
}

// NewSplitters creates language keyed splitter cache. Languages which could
// not be parsed are handled by the fallback language splitter.
func NewSplitters(fallback string, log *zap.Logger) *Splitters {
	tag, err := language.Parse(fallback)
	if err != nil {
		tag = language.English
	}
	return &Splitters{
		fallback: tag,
		cache:    make(map[string]*Splitter),
		log:      log.Named("sentences"),
	}
}

// Get returns splitter for the language code as found in book lang attributes.
func (ss *Splitters) Get(lang string) *Splitter {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if sp, ok := ss.cache[lang]; ok {
		return sp
	}
	tag, err := language.Parse(lang)
	if err != nil {
		ss.log.Debug("Unable to parse language, using fallback", zap.String("lang", lang), zap.Stringer("fallback", ss.fallback))
		tag = ss.fallback
	}
	sp := NewSplitter(tag, ss.log)
	ss.cache[lang] = sp
	return sp
}

// Split returns audio fragments of text in the language.
func (ss *Splitters) Split(in, lang string) []string {
	return ss.Get(lang).Fragments(in)
}
