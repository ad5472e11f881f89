// Package pix renders and parses the BCB "copy and paste" charge payload
// (EMV-style TLV text terminated by a CRC-16).
package pix

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	domainerrors "pix-charge.backend/internal/domain/errors"
)

// EMV tag identifiers used by the PIX payload
const (
	tagFormatIndicator   = "00"
	tagInitiationMethod  = "01"
	tagMerchantAccount   = "26"
	tagMerchantCategory  = "52"
	tagCurrency          = "53"
	tagAmount            = "54"
	tagCountry           = "58"
	tagMerchantName      = "59"
	tagMerchantCity      = "60"
	tagAdditionalData    = "62"
	tagCRC               = "63"
	subTagGUI            = "00"
	subTagKey            = "01"
	subTagReferenceLabel = "05"
)

const (
	pixGUI           = "br.gov.bcb.pix"
	currencyBRL      = "986"
	countryBR        = "BR"
	categoryNone     = "0000"
	initiationOnce   = "12" // dynamic: payload is paid at most once
	formatVersion    = "01"
	defaultReference = "***"

	// Field bounds from the BCB payload manual
	MaxKeyLen       = 77
	MaxNameLen      = 25
	MaxCityLen      = 15
	MaxReferenceLen = 25
	maxAmountLen    = 13
)

// Fields holds the logical contents of a parsed payload.
type Fields struct {
	MerchantKey    string
	MerchantName   string
	MerchantCity   string
	Amount         string
	ReferenceLabel string
	CRC            string
}

// BuildPayload renders a charge into the PIX copy-and-paste string. The
// output is deterministic: identical inputs always yield identical bytes.
func BuildPayload(amount decimal.Decimal, merchantKey, merchantName, merchantCity, referenceLabel string) (string, error) {
	amt, err := formatAmount(amount)
	if err != nil {
		return "", err
	}
	if err := checkField("merchant key", merchantKey, MaxKeyLen); err != nil {
		return "", err
	}
	if !isASCII(merchantKey) {
		return "", fmt.Errorf("%w: merchant key must be ASCII", domainerrors.ErrEncoding)
	}
	if err := checkField("merchant name", merchantName, MaxNameLen); err != nil {
		return "", err
	}
	if err := checkField("merchant city", merchantCity, MaxCityLen); err != nil {
		return "", err
	}
	if referenceLabel == "" {
		referenceLabel = defaultReference
	}
	if err := checkField("reference label", referenceLabel, MaxReferenceLen); err != nil {
		return "", err
	}

	account := emit(subTagGUI, pixGUI) + emit(subTagKey, merchantKey)
	additional := emit(subTagReferenceLabel, referenceLabel)

	payload := emit(tagFormatIndicator, formatVersion) +
		emit(tagInitiationMethod, initiationOnce) +
		emit(tagMerchantAccount, account) +
		emit(tagMerchantCategory, categoryNone) +
		emit(tagCurrency, currencyBRL) +
		emit(tagAmount, amt) +
		emit(tagCountry, countryBR) +
		emit(tagMerchantName, merchantName) +
		emit(tagMerchantCity, merchantCity) +
		emit(tagAdditionalData, additional) +
		tagCRC + "04"

	return payload + Checksum(payload), nil
}

// ParsePayload walks the TLV structure back out of a payload and verifies
// its trailing checksum.
func ParsePayload(payload string) (*Fields, error) {
	f := &Fields{}
	pos := 0
	for pos < len(payload) {
		tag, value, next, err := readTLV(payload, pos)
		if err != nil {
			return nil, err
		}
		switch tag {
		case tagMerchantAccount:
			sub, err := parseNested(value)
			if err != nil {
				return nil, err
			}
			if sub[subTagGUI] != pixGUI {
				return nil, fmt.Errorf("%w: unexpected account GUI %q", domainerrors.ErrEncoding, sub[subTagGUI])
			}
			f.MerchantKey = sub[subTagKey]
		case tagAmount:
			f.Amount = value
		case tagMerchantName:
			f.MerchantName = value
		case tagMerchantCity:
			f.MerchantCity = value
		case tagAdditionalData:
			sub, err := parseNested(value)
			if err != nil {
				return nil, err
			}
			f.ReferenceLabel = sub[subTagReferenceLabel]
		case tagCRC:
			if next != len(payload) {
				return nil, fmt.Errorf("%w: data after CRC field", domainerrors.ErrEncoding)
			}
			f.CRC = value
		}
		pos = next
	}

	if len(f.CRC) != 4 {
		return nil, fmt.Errorf("%w: missing CRC field", domainerrors.ErrEncoding)
	}
	if want := Checksum(payload[:len(payload)-4]); f.CRC != want {
		return nil, fmt.Errorf("%w: CRC mismatch, have %s want %s", domainerrors.ErrEncoding, f.CRC, want)
	}
	return f, nil
}

// Checksum computes CRC-16/CCITT-FALSE (poly 0x1021, init 0xFFFF) over the
// input and renders it as 4 uppercase hex digits.
func Checksum(s string) string {
	crc := uint16(0xFFFF)
	for i := 0; i < len(s); i++ {
		crc ^= uint16(s[i]) << 8
		for bit := 0; bit < 8; bit++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return fmt.Sprintf("%04X", crc)
}

func formatAmount(amount decimal.Decimal) (string, error) {
	if !amount.IsPositive() {
		return "", fmt.Errorf("%w: amount must be positive", domainerrors.ErrEncoding)
	}
	if amount.Exponent() < -2 {
		return "", fmt.Errorf("%w: amount has more than 2 decimal digits", domainerrors.ErrEncoding)
	}
	amt := amount.StringFixed(2)
	if len(amt) > maxAmountLen {
		return "", fmt.Errorf("%w: amount too large to encode", domainerrors.ErrEncoding)
	}
	return amt, nil
}

func checkField(name, value string, max int) error {
	if len(value) == 0 {
		return fmt.Errorf("%w: %s is empty", domainerrors.ErrEncoding, name)
	}
	if len(value) > max {
		return fmt.Errorf("%w: %s exceeds %d bytes", domainerrors.ErrEncoding, name, max)
	}
	return nil
}

func emit(tag, value string) string {
	return tag + fmt.Sprintf("%02d", len(value)) + value
}

func readTLV(s string, pos int) (tag, value string, next int, err error) {
	if pos+4 > len(s) {
		return "", "", 0, fmt.Errorf("%w: truncated TLV header at %d", domainerrors.ErrEncoding, pos)
	}
	tag = s[pos : pos+2]
	length, err := strconv.Atoi(s[pos+2 : pos+4])
	if err != nil {
		return "", "", 0, fmt.Errorf("%w: bad TLV length at %d", domainerrors.ErrEncoding, pos)
	}
	next = pos + 4 + length
	if next > len(s) {
		return "", "", 0, fmt.Errorf("%w: TLV value overruns payload at %d", domainerrors.ErrEncoding, pos)
	}
	return tag, s[pos+4 : next], next, nil
}

func parseNested(value string) (map[string]string, error) {
	sub := map[string]string{}
	pos := 0
	for pos < len(value) {
		tag, v, next, err := readTLV(value, pos)
		if err != nil {
			return nil, err
		}
		sub[tag] = v
		pos = next
	}
	return sub, nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7F {
			return false
		}
	}
	return true
}
