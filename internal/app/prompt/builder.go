package prompt

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/osvaldoandrade/docforge/internal/domain"
)

const filePrefix = "file:"

type Options struct {
	Prompt  string
	Profile domain.ServiceProfile
}

// Builder assembles the chat payload for a document: profile "pre"
// messages, the prompt, one message per source file, then profile "post"
// messages.
type Builder struct {
	reader  SourceReader
	encoder HeaderEncoder
	prompt  string
	profile domain.ServiceProfile
}

func NewBuilder(reader SourceReader, encoder HeaderEncoder, opts Options) (*Builder, error) {
	if reader == nil {
		return nil, ErrReaderRequired
	}
	if strings.TrimSpace(opts.Prompt) == "" {
		return nil, ErrPromptRequired
	}
	return &Builder{
		reader:  reader,
		encoder: encoder,
		prompt:  opts.Prompt,
		profile: opts.Profile,
	}, nil
}

func (b *Builder) Build(ctx context.Context, doc *domain.Document) (domain.Payload, error) {
	header, err := b.header(ctx)
	if err != nil {
		return domain.Payload{}, err
	}

	messages := b.profileMessages(domain.PositionPre)
	messages = append(messages, domain.ChatMessage{Role: domain.RoleUser, Content: b.prompt})

	sources := doc.Sources()
	slices.SortFunc(sources, func(a, b domain.SourceFile) int {
		return strings.Compare(a.Path, b.Path)
	})
	for _, source := range sources {
		if err := ctx.Err(); err != nil {
			return domain.Payload{}, err
		}
		content, err := b.reader.ReadSource(ctx, source.Path)
		if err != nil {
			return domain.Payload{}, fmt.Errorf("read source %s: %w", source.Path, err)
		}
		messages = append(messages, domain.ChatMessage{
			Role:    domain.RoleUser,
			Content: Attachment(source.Path, string(content)),
		})
	}

	messages = append(messages, b.profileMessages(domain.PositionPost)...)
	return domain.Payload{Profile: b.profile, Header: header, Messages: messages}, nil
}

func Attachment(path, content string) string {
	return "```  -- file : " + path + "\n" + content + "\n```\n\n"
}

func (b *Builder) profileMessages(position domain.MessagePosition) []domain.ChatMessage {
	var out []domain.ChatMessage
	for _, message := range b.profile.Messages {
		if domain.NormalizeMessagePosition(message.Position) != position {
			continue
		}
		role := domain.NormalizeRole(message.Role)
		for _, text := range message.Texts {
			if strings.TrimSpace(text) == "" {
				continue
			}
			out = append(out, domain.ChatMessage{Role: role, Content: text})
		}
	}
	return out
}

// header describes the model settings, so switching model or tuning
// invalidates recorded fingerprints.
func (b *Builder) header(ctx context.Context) ([]byte, error) {
	header := domain.HeaderOf(b.profile)
	if b.encoder != nil {
		return b.encoder.EncodeHeader(ctx, header)
	}
	raw, err := json.Marshal(header, json.Deterministic(true))
	if err != nil {
		return nil, fmt.Errorf("encode payload header: %w", err)
	}
	return raw, nil
}

// Resolve returns the prompt text. A value starting with "file:" names a
// prompt template loaded through loader.
func Resolve(ctx context.Context, loader TemplateLoader, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", ErrPromptRequired
	}
	if len(value) < len(filePrefix) || !strings.EqualFold(value[:len(filePrefix)], filePrefix) {
		return value, nil
	}
	if loader == nil {
		return "", ErrTemplateLoaderRequired
	}
	name := strings.TrimSpace(value[len(filePrefix):])
	if name == "" {
		return "", fmt.Errorf("prompt file name: %w", ErrPromptRequired)
	}
	text, err := loader.LoadPrompt(ctx, name)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("prompt file %s is empty: %w", name, ErrPromptRequired)
	}
	return text, nil
}
