// Package main provides localization for the yuvenc CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Root command
		"Drive a video encoder through its buffer exchange protocol.": "バッファ交換プロトコルで動画エンコーダを駆動します。",

		// Encode command
		"Invalid configuration":                         "設定が不正です",
		"Failed to load configuration":                  "設定ファイルを読み込めませんでした",
		"No encoder available for %s, nothing encoded":  "%s に対応するエンコーダがないため、エンコードしませんでした",
		"Encoding complete":                             "エンコード完了",
		"Codec":                                         "コーデック",
		"Frames":                                        "フレーム数",
		"Output units":                                  "出力ユニット数",
		"Key frames":                                    "キーフレーム数",
		"Size":                                          "サイズ",
		"Output":                                        "出力先",
		"discarded":                                     "破棄",
		"Duration":                                      "所要時間",
		"Run ID":                                        "実行ID",

		// Probe command
		"Not an H.264 elementary stream or MP4 file": "H.264 エレメンタリストリームでも MP4 ファイルでもありません",
		"Format":          "形式",
		"Resolution":      "解像度",
		"Profile / Level": "プロファイル / レベル",
		"Access units":    "アクセスユニット数",
		"Pictures":        "ピクチャ数",
		"IDR frames":      "IDRフレーム数",
		"NAL units":       "NALユニット",

		// Codecs command
		"Available encoders": "利用可能なエンコーダ",
		"Types":              "対応形式",
		"Description":        "説明",
		"ffmpeg not found, H.264 encoding is unavailable": "ffmpeg が見つかりません。H.264 エンコードは利用できません",

		// Version command
		"Version:": "バージョン:",

		// Messages
		"Error:":   "エラー:",
		"Warning:": "警告:",

		// Report
		"Encode Summary":             "エンコードサマリー",
		"Skipped":                    "スキップ",
		"No encoder available for":   "対応エンコーダなし:",
		"Failed":                     "失敗",
		"Run":                        "実行",
		"Settings":                   "設定",
		"Frame Rate":                 "フレームレート",
		"I-Frame Interval":           "Iフレーム間隔",
		"Bit Rate":                   "ビットレート",
		"Frame Count":                "フレーム数",
		"Dequeue Timeout":            "デキュータイムアウト",
		"Stream":                     "ストリーム",
		"Frames Submitted":           "送信フレーム数",
		"End of Stream":              "ストリーム終端",
		"Presentation Time":          "表示時刻",
		"Output Units":               "出力ユニット数",
		"Key Frames":                 "キーフレーム数",
		"Config Units":               "設定ユニット数",
		"Iterations":                 "ループ回数",
		"Not Ready (input / output)": "未準備 (入力 / 出力)",
		"File":                       "ファイル",
		"Discarded":                  "破棄",
		"Stream Resolution":          "ストリーム解像度",
		"Generated at":               "生成日時",
		"Item":                       "項目",
		"Value":                      "値",
		"Yes":                        "はい",
		"No":                         "いいえ",
	})
}
