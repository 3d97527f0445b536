// Package ai contiene el adaptador OCR sobre la API REST de Google Gemini.
// El PDF viaja inline en base64; la respuesta es JSON puro gracias a
// response_mime_type=application/json.
package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ozonpanel/backend/internal/application/ports"
)

// Verificar en tiempo de compilación que GeminiOCR implementa OCRService.
var _ ports.OCRService = (*GeminiOCR)(nil)

const (
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s"

	// maxPDFBytes límite del PDF a enviar inline. Las facturas reales pesan
	// decenas de KB; un PDF mayor casi seguro no es una factura.
	maxPDFBytes = 10 << 20
)

// Prompts por tipo de documento. Los documentos son turcos (e-Arşiv, ETGB):
// los nombres de campo siguen la terminología fiscal turca que aparece impresa.
var ocrPrompts = map[string]string{
	ports.DocTypePurchase: `Bu bir Türk alış faturası (e-Arşiv) PDF'idir.
Belgeden aşağıdaki alanları çıkar ve SADECE şu yapıda bir JSON nesnesi döndür (ek metin yok):
{
  "faturaNo": "<fatura numarası>",
  "faturaTarihi": "<GG.AA.YYYY>",
  "saticiUnvani": "<satıcının ticari ünvanı>",
  "saticiVkn": "<satıcının vergi kimlik numarası>",
  "aliciVkn": "<alıcının vergi kimlik numarası>",
  "urunBilgisi": "<ürün açıklaması>",
  "urunAdedi": "<toplam ürün adedi, sayı olarak>",
  "kdvHaricTutar": "<KDV hariç tutar>",
  "kdvTutari": "<KDV tutarı>"
}
Okunamayan alanları boş string olarak bırak. Tutarları olduğu gibi yaz (virgüllü Türk formatı kabul).`,

	ports.DocTypeSale: `Bu bir Türk satış faturası (e-Arşiv) PDF'idir.
Belgeden aşağıdaki alanları çıkar ve SADECE şu yapıda bir JSON nesnesi döndür:
{
  "faturaNo": "<fatura numarası>",
  "faturaTarihi": "<GG.AA.YYYY>",
  "aliciAdSoyad": "<alıcının adı soyadı>"
}
Okunamayan alanları boş string olarak bırak.`,

	ports.DocTypeETGB: `Bu bir ETGB (Elektronik Ticaret Gümrük Beyannamesi) PDF'idir.
Belgeden aşağıdaki alanları çıkar ve SADECE şu yapıda bir JSON nesnesi döndür:
{
  "etgbNo": "<beyanname numarası>",
  "etgbTarihi": "<GG.AA.YYYY>",
  "faturaTarihi": "<fatura tarihi, GG.AA.YYYY>",
  "tutar": "<fatura tutarı>",
  "dovizCinsi": "<USD veya EUR>"
}
Okunamayan alanları boş string olarak bırak.`,
}

// GeminiOCR adaptador que implementa OCRService llamando a la API REST de
// Google Gemini con el PDF inline.
type GeminiOCR struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewGeminiOCR construye el adaptador. model suele ser "gemini-2.0-flash".
func NewGeminiOCR(apiKey, model string) *GeminiOCR {
	return &GeminiOCR{
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second, // PDFs inline tardan más que texto plano
		},
	}
}

// ── Estructuras internas para la API de Gemini ────────────────────────────────

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig genConfig       `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"` // base64
}

type genConfig struct {
	ResponseMIMEType string  `json:"responseMimeType"` // "application/json" → JSON puro garantizado
	Temperature      float32 `json:"temperature"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// ── Implementación del puerto ─────────────────────────────────────────────────

// ExtractFields descarga el PDF y se lo envía a Gemini con el prompt del tipo
// de documento. Devuelve el mapa plano campo -> valor; un documento ilegible
// produce un mapa con strings vacíos, que el orquestador trata como skipped.
func (s *GeminiOCR) ExtractFields(ctx context.Context, pdfURL, docType string) (map[string]string, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("OCR: GEMINI_API_KEY no configurado")
	}
	prompt, ok := ocrPrompts[docType]
	if !ok {
		return nil, fmt.Errorf("OCR: tipo de documento desconocido: %s", docType)
	}

	pdfBytes, err := s.downloadPDF(ctx, pdfURL)
	if err != nil {
		return nil, err
	}

	payload := geminiRequest{
		Contents: []geminiContent{
			{
				Role: "user",
				Parts: []geminiPart{
					{InlineData: &inlineData{
						MIMEType: "application/pdf",
						Data:     base64.StdEncoding.EncodeToString(pdfBytes),
					}},
					{Text: prompt},
				},
			},
		},
		GenerationConfig: genConfig{
			ResponseMIMEType: "application/json",
			Temperature:      0.1, // extracción, no generación: lo más determinista posible
			MaxOutputTokens:  512,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("OCR: serializar request: %w", err)
	}

	url := fmt.Sprintf(geminiBaseURL, s.model, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("OCR: crear HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("OCR: timeout o cancelación: %w", ctx.Err())
		}
		return nil, fmt.Errorf("OCR: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 256*1024))
	if err != nil {
		return nil, fmt.Errorf("OCR: leer respuesta: %w", err)
	}

	var gemResp geminiResponse
	if err := json.Unmarshal(rawBody, &gemResp); err != nil {
		return nil, fmt.Errorf("OCR: deserializar respuesta Gemini: %w", err)
	}
	if gemResp.Error != nil {
		return nil, fmt.Errorf("OCR: Gemini error %d: %s", gemResp.Error.Code, gemResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OCR: Gemini HTTP %d: %s", resp.StatusCode, string(rawBody))
	}
	if len(gemResp.Candidates) == 0 || len(gemResp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("OCR: Gemini devolvió respuesta vacía")
	}

	fields := map[string]string{}
	if err := json.Unmarshal([]byte(gemResp.Candidates[0].Content.Parts[0].Text), &fields); err != nil {
		return nil, fmt.Errorf("OCR: parsear JSON de campos: %w", err)
	}

	// Un JSON todo-vacío equivale a "no se pudo leer nada".
	empty := true
	for _, v := range fields {
		if v != "" {
			empty = false
			break
		}
	}
	if empty {
		return map[string]string{}, nil
	}
	return fields, nil
}

func (s *GeminiOCR) downloadPDF(ctx context.Context, pdfURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pdfURL, nil)
	if err != nil {
		return nil, fmt.Errorf("OCR: crear request de PDF: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("OCR: descargar PDF: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OCR: PDF HTTP %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPDFBytes+1))
	if err != nil {
		return nil, fmt.Errorf("OCR: leer PDF: %w", err)
	}
	if len(data) > maxPDFBytes {
		return nil, fmt.Errorf("OCR: PDF supera el límite de %d bytes", maxPDFBytes)
	}
	return data, nil
}
