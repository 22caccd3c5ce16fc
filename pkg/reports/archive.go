package reports

import (
	"bytes"
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/crypto/pbkdf2"

	"github.com/cascadelab/ripplegraph/pkg/logging"
)

const (
	archiveKeySize    = 32 // AES-256
	archiveNonceSize  = 12 // GCM standard nonce size
	archiveTagSize    = 16 // GCM authentication tag size
	archiveSaltSize   = 32 // Salt for PBKDF2
	archiveIterations = 600000
)

// ErrInvalidArchive is returned when an archived blob is too short to hold
// a salt, nonce, and tag.
var ErrInvalidArchive = errors.New("invalid archive payload")

// ArchiveConfig configures the optional S3 archive of finished reports.
type ArchiveConfig struct {
	Bucket     string `yaml:"bucket" json:"bucket"`
	Prefix     string `yaml:"prefix" json:"prefix"`
	Region     string `yaml:"region" json:"region"`
	Passphrase string `yaml:"passphrase" json:"-"`
}

// Archiver uploads finished reports to S3 as encrypted JSON. Archiving is
// best-effort by contract: callers log failures instead of failing the
// analysis that produced the report.
type Archiver struct {
	client     *s3.Client
	bucket     string
	prefix     string
	passphrase string
	logger     logging.Logger
}

// NewArchiver builds an archiver from the ambient AWS credential chain.
func NewArchiver(ctx context.Context, cfg ArchiveConfig, logger logging.Logger) (*Archiver, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("archive bucket is required")
	}
	if cfg.Passphrase == "" {
		return nil, errors.New("archive passphrase is required")
	}
	if logger == nil {
		logger = logging.DefaultLogger()
	}

	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Archiver{
		client:     s3.NewFromConfig(awsCfg),
		bucket:     cfg.Bucket,
		prefix:     cfg.Prefix,
		passphrase: cfg.Passphrase,
		logger:     logger,
	}, nil
}

// ArchiveReport encrypts and uploads a cascade report.
func (a *Archiver) ArchiveReport(ctx context.Context, report *CascadeReport) error {
	return a.put(ctx, a.objectKey("cascade", report.ID), report)
}

// ArchiveSimulation encrypts and uploads a simulation report.
func (a *Archiver) ArchiveSimulation(ctx context.Context, sim *SimulationReport) error {
	return a.put(ctx, a.objectKey("simulation", sim.ID), sim)
}

// FetchReport downloads and decrypts an archived cascade report.
func (a *Archiver) FetchReport(ctx context.Context, id string) (*CascadeReport, error) {
	data, err := a.get(ctx, a.objectKey("cascade", id))
	if err != nil {
		return nil, err
	}

	var report CascadeReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to decode archived report %s: %w", id, err)
	}
	return &report, nil
}

func (a *Archiver) objectKey(kind, id string) string {
	return path.Join(a.prefix, kind, id+".json.enc")
}

func (a *Archiver) put(ctx context.Context, key string, v any) error {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode archive payload: %w", err)
	}

	blob, err := SealArchive(a.passphrase, plaintext)
	if err != nil {
		return fmt.Errorf("failed to encrypt archive payload: %w", err)
	}

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(blob),
		ContentType: aws.String("application/octet-stream"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}

	a.logger.Info("report archived",
		logging.String("bucket", a.bucket),
		logging.String("key", key),
		logging.Int("bytes", len(blob)))
	return nil
}

func (a *Archiver) get(ctx context.Context, key string) ([]byte, error) {
	out, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", key, err)
	}
	defer out.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(out.Body); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}

	return OpenArchive(a.passphrase, buf.Bytes())
}

// SealArchive encrypts plaintext with AES-256-GCM under a key derived from
// the passphrase. Each call draws a fresh salt and nonce, both carried in
// the output: salt + nonce + ciphertext + tag.
func SealArchive(passphrase string, plaintext []byte) ([]byte, error) {
	salt := make([]byte, archiveSaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	gcm, err := archiveCipher(passphrase, salt)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, archiveNonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)

	blob := make([]byte, 0, archiveSaltSize+archiveNonceSize+len(ciphertext))
	blob = append(blob, salt...)
	blob = append(blob, nonce...)
	blob = append(blob, ciphertext...)
	return blob, nil
}

// OpenArchive decrypts a blob produced by SealArchive.
func OpenArchive(passphrase string, blob []byte) ([]byte, error) {
	if len(blob) < archiveSaltSize+archiveNonceSize+archiveTagSize {
		return nil, ErrInvalidArchive
	}

	salt := blob[:archiveSaltSize]
	nonce := blob[archiveSaltSize : archiveSaltSize+archiveNonceSize]
	ciphertext := blob[archiveSaltSize+archiveNonceSize:]

	gcm, err := archiveCipher(passphrase, salt)
	if err != nil {
		return nil, err
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt archive: %w", err)
	}
	return plaintext, nil
}

func archiveCipher(passphrase string, salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key([]byte(passphrase), salt, archiveIterations, archiveKeySize, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}
