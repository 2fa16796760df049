// Package tunnel implements a chat-over-DNS handler: clients smuggle short
// messages in the leftmost label of A queries under a base domain, and fetch
// file contents chunk by chunk through TXT queries.
package tunnel

import (
	"log/slog"
	"net"

	"github.com/burrowdns/burrow/internal/dns"
)

// answerTTL is used on every record the handler emits. Zero tells resolvers
// not to cache, which matters because the same name can return different
// data on each query.
const answerTTL = 0

// ChatHandler answers queries under a single base domain. It implements
// server.Handler and is safe for concurrent use: all its state is read-only
// after construction.
type ChatHandler struct {
	domain dns.Name
	answer net.IP
	obf    Obfuscator
	files  *FileStore
	logger *slog.Logger
}

// NewChatHandler builds a handler for the given base domain. answer is the
// fixed IPv4 address returned for accepted A queries. files may be nil, in
// which case all TXT queries are refused.
func NewChatHandler(domain dns.Name, answer net.IP, obf Obfuscator, files *FileStore, logger *slog.Logger) *ChatHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatHandler{
		domain: domain,
		answer: answer.To4(),
		obf:    obf,
		files:  files,
		logger: logger,
	}
}

// Handle dispatches on the first question's type. Requests without questions
// and question types the handler does not speak get a REFUSED response.
func (c *ChatHandler) Handle(client *net.UDPAddr, req dns.Packet) *dns.Packet {
	if len(req.Questions) == 0 {
		return refuse(req)
	}
	q := req.Questions[0]
	switch q.Type {
	case dns.TypeA:
		return c.handleA(client, req, q)
	case dns.TypeTXT:
		return c.handleTXT(client, req, q)
	default:
		return refuse(req)
	}
}

// handleA accepts subdomain queries, decodes the message label, and answers
// with the fixed address. Queries outside the base domain are refused.
func (c *ChatHandler) handleA(client *net.UDPAddr, req dns.Packet, q dns.Question) *dns.Packet {
	label, ok := c.messageLabel(q.Name)
	if !ok {
		return refuse(req)
	}

	if msg, ok := c.obf.Decode(label); ok {
		c.logger.Info("chat message",
			slog.String("client", client.IP.String()),
			slog.String("message", msg))
	} else {
		c.logger.Info("chat label without signal",
			slog.String("client", client.IP.String()),
			slog.String("label", label))
	}

	rec := dns.NewIPRecord(dns.NewRRHeader(q.Name, dns.ClassIN, answerTTL), c.answer)
	return c.respond(req, q, rec)
}

// handleTXT serves one file chunk per query. The chunk is addressed by the
// message label in "<file>-<n>" form; unknown files or out-of-range chunks
// are refused so the client can tell a finished transfer (empty TXT) from a
// bad request.
func (c *ChatHandler) handleTXT(client *net.UDPAddr, req dns.Packet, q dns.Question) *dns.Packet {
	label, ok := c.messageLabel(q.Name)
	if !ok || c.files == nil {
		return refuse(req)
	}

	chunk, ok := c.files.Chunk(label)
	if !ok {
		c.logger.Debug("file chunk not found",
			slog.String("client", client.IP.String()),
			slog.String("key", label))
		return refuse(req)
	}
	c.logger.Info("serving file chunk",
		slog.String("client", client.IP.String()),
		slog.String("key", label),
		slog.Int("size", len(chunk)))

	rec := &dns.TXTRecord{
		H:       dns.NewRRHeader(q.Name, dns.ClassIN, answerTTL),
		Strings: [][]byte{chunk},
	}
	return c.respond(req, q, rec)
}

// messageLabel extracts the label immediately left of the base domain.
// The query name must be a strict subdomain of the base; the base itself
// carries no message.
func (c *ChatHandler) messageLabel(name dns.Name) (string, bool) {
	if name.LabelCount() <= c.domain.LabelCount() || !name.IsSubdomainOf(c.domain) {
		return "", false
	}
	return name.Label(name.LabelCount() - c.domain.LabelCount() - 1), true
}

// respond builds an authoritative NOERROR response echoing the question and
// carrying exactly one answer.
func (c *ChatHandler) respond(req dns.Packet, q dns.Question, answer dns.Record) *dns.Packet {
	h := dns.Header{
		ID:      req.Header.ID,
		Flags:   dns.ResponseFlags(req.Header.Flags, dns.RCodeNoError) | dns.AAFlag,
		QDCount: 1,
		ANCount: 1,
	}
	return &dns.Packet{
		Header:    h,
		Questions: []dns.Question{q},
		Answers:   []dns.Record{answer},
	}
}

// refuse builds an authoritative REFUSED response for anything the handler
// does not serve.
func refuse(req dns.Packet) *dns.Packet {
	resp := dns.BuildErrorResponse(req, dns.RCodeRefused)
	resp.Header.Flags |= dns.AAFlag
	return &resp
}
