package reports

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang/snappy"
)

// RecordKind identifies what a journal record holds.
type RecordKind byte

const (
	// RecordCascade marks a persisted cascade report.
	RecordCascade RecordKind = 1
	// RecordSimulation marks a persisted simulation report.
	RecordSimulation RecordKind = 2
)

// journalFileName is fixed; one journal per data directory.
const journalFileName = "reports_journal.log"

// Record is one journal entry. Data is stored snappy-compressed on disk
// and handed back decompressed by ReadAll.
type Record struct {
	Seq       uint64
	Kind      RecordKind
	Data      []byte
	Checksum  uint32
	Timestamp int64
}

// Journal is an append-only, snappy-compressed log of every persisted
// report. It exists for audit replay: records are framed with a CRC32
// so corruption is detected on read, and the file is never rewritten.
type Journal struct {
	file    *os.File
	writer  *bufio.Writer
	seq     uint64
	dataDir string
	mu      sync.Mutex

	totalWrites       uint64
	bytesUncompressed uint64
	bytesCompressed   uint64
}

// OpenJournal opens (or creates) the journal under dataDir and recovers
// the last sequence number from existing records.
func OpenJournal(dataDir string) (*Journal, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	journalPath := filepath.Join(dataDir, journalFileName)

	file, err := os.OpenFile(journalPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal file: %w", err)
	}

	j := &Journal{
		file:    file,
		writer:  bufio.NewWriter(file),
		dataDir: dataDir,
	}

	if err := j.recoverSeq(); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to recover journal sequence: %w", err)
	}

	return j, nil
}

// Append writes one record and returns its sequence number.
func (j *Journal) Append(kind RecordKind, data []byte) (uint64, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.seq++
	seq := j.seq

	compressed := snappy.Encode(nil, data)

	rec := Record{
		Seq:       seq,
		Kind:      kind,
		Data:      compressed,
		Checksum:  crc32.ChecksumIEEE(compressed),
		Timestamp: time.Now().Unix(),
	}

	j.totalWrites++
	j.bytesUncompressed += uint64(len(data))
	j.bytesCompressed += uint64(len(compressed))

	return seq, j.writeRecord(&rec)
}

// writeRecord frames one record on disk.
// Format: [Seq:8][Kind:1][DataLen:4][Data:N][Checksum:4][Timestamp:8]
func (j *Journal) writeRecord(rec *Record) error {
	if err := binary.Write(j.writer, binary.BigEndian, rec.Seq); err != nil {
		return err
	}

	if err := j.writer.WriteByte(byte(rec.Kind)); err != nil {
		return err
	}

	dataLen := uint32(len(rec.Data))
	if err := binary.Write(j.writer, binary.BigEndian, dataLen); err != nil {
		return err
	}

	if _, err := j.writer.Write(rec.Data); err != nil {
		return err
	}

	if err := binary.Write(j.writer, binary.BigEndian, rec.Checksum); err != nil {
		return err
	}

	if err := binary.Write(j.writer, binary.BigEndian, rec.Timestamp); err != nil {
		return err
	}

	return j.writer.Flush()
}

// ReadAll reads every record, verifying checksums and decompressing data.
func (j *Journal) ReadAll() ([]*Record, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	return j.readAllLocked()
}

func (j *Journal) readAllLocked() ([]*Record, error) {
	file, err := os.Open(filepath.Join(j.dataDir, journalFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	reader := bufio.NewReader(file)
	records := make([]*Record, 0)

	for {
		rec := &Record{}

		if err := binary.Read(reader, binary.BigEndian, &rec.Seq); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}

		kindByte, err := reader.ReadByte()
		if err != nil {
			return nil, err
		}
		rec.Kind = RecordKind(kindByte)

		var dataLen uint32
		if err := binary.Read(reader, binary.BigEndian, &dataLen); err != nil {
			return nil, err
		}

		compressed := make([]byte, dataLen)
		if _, err := io.ReadFull(reader, compressed); err != nil {
			return nil, err
		}

		if err := binary.Read(reader, binary.BigEndian, &rec.Checksum); err != nil {
			return nil, err
		}

		// Checksum covers the compressed bytes.
		if crc32.ChecksumIEEE(compressed) != rec.Checksum {
			return nil, fmt.Errorf("checksum mismatch for record %d", rec.Seq)
		}

		decompressed, err := snappy.Decode(nil, compressed)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress record %d: %w", rec.Seq, err)
		}
		rec.Data = decompressed

		if err := binary.Read(reader, binary.BigEndian, &rec.Timestamp); err != nil {
			return nil, err
		}

		records = append(records, rec)
	}

	return records, nil
}

// recoverSeq reads all records to find the last sequence number.
func (j *Journal) recoverSeq() error {
	records, err := j.readAllLocked()
	if err != nil {
		return err
	}

	if len(records) > 0 {
		j.seq = records[len(records)-1].Seq
	}
	return nil
}

// Flush forces buffered records to disk.
func (j *Journal) Flush() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.writer.Flush(); err != nil {
		return err
	}
	return j.file.Sync()
}

// Close flushes and closes the journal file.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.writer.Flush(); err != nil {
		return err
	}
	if err := j.file.Sync(); err != nil {
		return err
	}
	return j.file.Close()
}

// JournalStats reports write and compression counters.
type JournalStats struct {
	TotalWrites       uint64
	BytesUncompressed uint64
	BytesCompressed   uint64
	CompressionRatio  float64
}

// Stats returns the journal's write and compression counters.
func (j *Journal) Stats() JournalStats {
	j.mu.Lock()
	defer j.mu.Unlock()

	ratio := 0.0
	if j.bytesUncompressed > 0 {
		ratio = 1.0 - (float64(j.bytesCompressed) / float64(j.bytesUncompressed))
	}

	return JournalStats{
		TotalWrites:       j.totalWrites,
		BytesUncompressed: j.bytesUncompressed,
		BytesCompressed:   j.bytesCompressed,
		CompressionRatio:  ratio,
	}
}
