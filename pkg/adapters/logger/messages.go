package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Orchestration level messages (info)
		"Starting encode run %s":                    "エンコード実行 %s を開始します",
		"Found codec: %s":                           "コーデックが見つかりました: %s",
		"Encoding %d frames at %dx%d, %d fps":       "%d フレームを %dx%d, %d fps でエンコード中",
		"Encoded %d frames, %d bytes written to %s": "%d フレームをエンコードし、%d バイトを %s に書き込みました",
		"Encoded %d frames, %d bytes discarded":     "%d フレームをエンコードし、%d バイトを破棄しました",
		"Report written to %s":                      "レポートを %s に書き込みました",
		"Interrupted, shutting down...":             "中断されました。シャットダウン中...",

		// Orchestration errors
		"Invalid session configuration: %s":          "セッション設定が不正です: %s",
		"Unable to find an appropriate codec for %s": "%s に対応するコーデックが見つかりません",
		"Failed to open output: %s":                  "出力を開けませんでした: %s",
		"Failed to close output: %s":                 "出力を閉じられませんでした: %s",
		"Failed to create codec %s: %s":              "コーデック %s を作成できませんでした: %s",
		"Encode failed after %d frames: %s":          "%d フレーム後にエンコードが失敗しました: %s",
		"Failed to write report: %s":                 "レポートの書き込みに失敗しました: %s",

		// Sink
		"Saving disabled, the encoded stream is discarded": "保存が無効です。エンコード結果は破棄されます",
		"Encoded output will be saved as %s":               "エンコード結果を %s に保存します",
		"Directory not created: %s":                        "ディレクトリを作成できませんでした: %s",
		"Unable to create output file %s":                  "出力ファイル %s を作成できません",

		// Frame sources
		"Cannot read frame %d from %s: %s":       "フレーム %d を %s から読み込めません: %s",
		"Frame %d is %d bytes, padding to %d":    "フレーム %d は %d バイトです。%d バイトまで埋めます",
		"Frame %d is %d bytes, truncating to %d": "フレーム %d は %d バイトです。%d バイトに切り詰めます",
		"Frame buffer is %d bytes, expected %d":  "フレームバッファは %d バイトです (期待値 %d)",

		// Session and codecs (debug)
		"Codec %s started (%dx%d @ %d fps, %d bps)":        "コーデック %s を開始しました (%dx%d @ %d fps, %d bps)",
		"Codec %s released":                                "コーデック %s を解放しました",
		"Using ffmpeg at %s":                               "ffmpeg を使用します: %s",
		"Started ffmpeg: %dx%d @ %d fps, %d bps":           "ffmpeg を起動しました: %dx%d @ %d fps, %d bps",
		"Input ended, closing ffmpeg stdin":                "入力が終了しました。ffmpeg の標準入力を閉じます",
		"ffmpeg finished":                                  "ffmpeg が終了しました",
		"ffmpeg stopped":                                   "ffmpeg を停止しました",
		"ffmpeg not found, H.264 encoding unavailable: %s": "ffmpeg が見つかりません。H.264 エンコードは利用できません: %s",
		"Could not parse SPS: %s":                          "SPS を解析できませんでした: %s",
		"Output EOS":                                       "出力ストリーム終端",

		// Encode loop (debug)
		"Start looping":                           "ループ開始",
		"input buffer not available":              "入力バッファが利用できません",
		"inputBufIndex=%d":                        "入力バッファ番号=%d",
		"sent input EOS (with zero-length frame)": "入力終端を送信しました (長さ0のフレーム)",
		"submitted frame %d to enc":               "フレーム %d をエンコーダに送信しました",
		"no output from encoder available":        "エンコーダからの出力はまだありません",
		"encoder output buffers changed":          "エンコーダの出力バッファが変更されました",
		"encoder output format changed: %s":       "エンコーダの出力フォーマットが変更されました: %s",
		"failed writing debug data to file":       "ファイルへの書き込みに失敗しました",
		"wrote %d bytes pts=%d flags=%s":          "%d バイトを書き込みました pts=%d flags=%s",
		"output EOS":                              "出力終端",
	})
}
