package services

import (
	"fmt"
	"strings"

	"github.com/medikita/triage-ai/internal/domain/entities"
)

const summarySystemPrompt = "Anda adalah asisten medis AI yang membantu menjelaskan hasil triase kesehatan dalam Bahasa Indonesia. Berikan penjelasan yang jelas, akurat, dan mudah dipahami oleh pasien awam. Selalu tekankan bahwa ini adalah analisis pendukung, bukan diagnosis final."

const explanationSystemPrompt = "Anda adalah asisten medis yang menjelaskan hasil analisis AI dalam Bahasa Indonesia dengan cara yang mudah dipahami."

const firstAidSystemPrompt = "Anda adalah asisten medis yang memberikan saran pertolongan pertama yang aman dan praktis dalam Bahasa Indonesia."

var urgencyPromptText = map[entities.UrgencyLevel]string{
	entities.UrgencyRed:    "URGENT (memerlukan penanganan segera)",
	entities.UrgencyYellow: "PERLU PERHATIAN (konsultasi dokter dalam 24 jam)",
	entities.UrgencyGreen:  "RINGAN (observasi dan istirahat)",
}

func buildSummaryPrompt(complaint, category string, urgency entities.UrgencyLevel, symptoms []string, flags []entities.DetectedFlag) string {
	urgencyText, ok := urgencyPromptText[urgency]
	if !ok {
		urgencyText = string(urgency)
	}

	symptomText := "tidak spesifik"
	if len(symptoms) > 0 {
		symptomText = strings.Join(symptoms, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, `Berdasarkan analisis AI terhadap keluhan pasien, berikan ringkasan medis yang komprehensif:

KELUHAN PASIEN:
"%s"

HASIL ANALISIS:
- Kategori: %s
- Tingkat Urgensi: %s
- Gejala Terdeteksi: %s
`, complaint, category, urgencyText, symptomText)

	if len(flags) > 0 {
		b.WriteString("\n- Red Flags Terdeteksi:\n")
		for i, flag := range flags {
			if i == 3 {
				break
			}
			fmt.Fprintf(&b, "  • %s: %s\n", flag.Keyword, flag.Reason)
		}
	}

	b.WriteString(`
TUGAS:
Berikan ringkasan dalam 2-3 paragraf yang mencakup:
1. Penjelasan kondisi berdasarkan gejala
2. Mengapa tingkat urgensi ini ditetapkan
3. Rekomendasi tindakan yang jelas

Gunakan bahasa yang mudah dipahami, empatik, dan profesional. Akhiri dengan reminder bahwa ini adalah analisis AI pendukung.`)

	return b.String()
}

func buildExplanationPrompt(category string, probability float64) string {
	return fmt.Sprintf(`Jelaskan secara singkat (2-3 kalimat) dalam Bahasa Indonesia:

Kategori penyakit: %s
Tingkat keyakinan AI: %.1f%%

Jelaskan apa arti kategori ini dan mengapa tingkat keyakinan berada di level tersebut. Gunakan bahasa yang mudah dipahami.`, category, probability*100)
}

func buildFirstAidPrompt(category string, urgency entities.UrgencyLevel) string {
	return fmt.Sprintf(`Berikan saran pertolongan pertama sederhana (3-5 poin) untuk kondisi:

Kategori: %s
Tingkat Urgensi: %s

Berikan saran praktis yang AMAN untuk dilakukan di rumah sebelum konsultasi dokter. Gunakan format bullet points. Tekankan untuk tetap konsultasi dokter.`, category, urgency)
}

// fallbackSummary is the deterministic template used when the generator is
// unavailable or retries are exhausted. It never fails.
func fallbackSummary(category string, urgency entities.UrgencyLevel, symptoms []string) string {
	var b strings.Builder

	switch urgency {
	case entities.UrgencyRed:
		b.WriteString("Kondisi Anda tergolong URGENT dan memerlukan penanganan medis segera")
	case entities.UrgencyYellow:
		b.WriteString("Kondisi Anda memerlukan perhatian medis dalam waktu dekat")
	case entities.UrgencyGreen:
		b.WriteString("Kondisi Anda tergolong ringan")
	default:
		b.WriteString("Kondisi Anda perlu dievaluasi")
	}

	fmt.Fprintf(&b, ". Gejala Anda mengarah pada kategori %s. ", category)

	if len(symptoms) > 0 {
		shown := symptoms
		if len(shown) > 3 {
			shown = shown[:3]
		}
		fmt.Fprintf(&b, "Gejala utama yang terdeteksi: %s. ", strings.Join(shown, ", "))
	}

	switch urgency {
	case entities.UrgencyRed:
		b.WriteString("Segera cari bantuan medis atau pergi ke IGD terdekat.")
	case entities.UrgencyYellow:
		b.WriteString("Sebaiknya konsultasi dengan dokter dalam 24 jam untuk evaluasi lebih lanjut.")
	default:
		b.WriteString("Istirahat cukup dan monitor perkembangan gejala. Konsultasi dokter jika memburuk.")
	}

	return b.String()
}
