/*
 *    Copyright (c) 2025 Unrud <unrud@outlook.com>
 *
 *    This file is part of eitype.
 *
 *    eitype is free software: you can redistribute it and/or modify
 *    it under the terms of the GNU General Public License as published by
 *    the Free Software Foundation, either version 3 of the License, or
 *    (at your option) any later version.
 *
 *    eitype is distributed in the hope that it will be useful,
 *    but WITHOUT ANY WARRANTY; without even the implied warranty of
 *    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 *    GNU General Public License for more details.
 *
 *    You should have received a copy of the GNU General Public License
 *    along with eitype.  If not, see <http://www.gnu.org/licenses/>.
 */

package keymap

// Legacy keysyms of characters outside Latin-1 (X11/keysymdef.h). Characters
// without one use their Unicode keysym.
var keysymsMap = map[rune]Keysym{
	// Latin-2
	0x0104: 0x1a1,
	0x02d8: 0x1a2,
	0x0141: 0x1a3,
	0x013d: 0x1a5,
	0x015a: 0x1a6,
	0x0160: 0x1a9,
	0x015e: 0x1aa,
	0x0164: 0x1ab,
	0x0179: 0x1ac,
	0x017d: 0x1ae,
	0x017b: 0x1af,
	0x0105: 0x1b1,
	0x02db: 0x1b2,
	0x0142: 0x1b3,
	0x013e: 0x1b5,
	0x015b: 0x1b6,
	0x02c7: 0x1b7,
	0x0161: 0x1b9,
	0x015f: 0x1ba,
	0x0165: 0x1bb,
	0x017a: 0x1bc,
	0x02dd: 0x1bd,
	0x017e: 0x1be,
	0x017c: 0x1bf,
	0x0154: 0x1c0,
	0x0102: 0x1c3,
	0x0139: 0x1c5,
	0x0106: 0x1c6,
	0x010c: 0x1c8,
	0x0118: 0x1ca,
	0x011a: 0x1cc,
	0x010e: 0x1cf,
	0x0110: 0x1d0,
	0x0143: 0x1d1,
	0x0147: 0x1d2,
	0x0150: 0x1d5,
	0x0158: 0x1d8,
	0x016e: 0x1d9,
	0x0170: 0x1db,
	0x0162: 0x1de,
	0x0155: 0x1e0,
	0x0103: 0x1e3,
	0x013a: 0x1e5,
	0x0107: 0x1e6,
	0x010d: 0x1e8,
	0x0119: 0x1ea,
	0x011b: 0x1ec,
	0x010f: 0x1ef,
	0x0111: 0x1f0,
	0x0144: 0x1f1,
	0x0148: 0x1f2,
	0x0151: 0x1f5,
	0x0159: 0x1f8,
	0x016f: 0x1f9,
	0x0171: 0x1fb,
	0x0163: 0x1fe,
	0x02d9: 0x1ff,
	// Latin-3
	0x0130: 0x2a9,
	0x011e: 0x2ab,
	0x0131: 0x2b9,
	0x011f: 0x2bb,
	// Latin-4
	0x0138: 0x3a2,
	0x0156: 0x3a3,
	0x0128: 0x3a5,
	0x013b: 0x3a6,
	0x0112: 0x3aa,
	0x0122: 0x3ab,
	0x0166: 0x3ac,
	0x0157: 0x3b3,
	0x0129: 0x3b5,
	0x013c: 0x3b6,
	0x0113: 0x3ba,
	0x0123: 0x3bb,
	0x0167: 0x3bc,
	0x014a: 0x3bd,
	0x014b: 0x3bf,
	0x0100: 0x3c0,
	0x012e: 0x3c7,
	0x0116: 0x3cc,
	0x012a: 0x3cf,
	0x0145: 0x3d1,
	0x014c: 0x3d2,
	0x0136: 0x3d3,
	0x0172: 0x3d9,
	0x0168: 0x3dd,
	0x016a: 0x3de,
	0x0101: 0x3e0,
	0x012f: 0x3e7,
	0x0117: 0x3ec,
	0x012b: 0x3ef,
	0x0146: 0x3f1,
	0x014d: 0x3f2,
	0x0137: 0x3f3,
	0x0173: 0x3f9,
	0x0169: 0x3fd,
	0x016b: 0x3fe,
	// Latin-9
	0x0152: 0x13bc,
	0x0153: 0x13bd,
	0x0178: 0x13be,
	// Cyrillic
	0x0451: 0x6a3,
	0x0454: 0x6a4,
	0x0456: 0x6a6,
	0x0457: 0x6a7,
	0x0491: 0x6ad,
	0x045e: 0x6ae,
	0x2116: 0x6b0,
	0x0401: 0x6b3,
	0x0404: 0x6b4,
	0x0406: 0x6b6,
	0x0407: 0x6b7,
	0x0490: 0x6bd,
	0x040e: 0x6be,
	0x044e: 0x6c0,
	0x0430: 0x6c1,
	0x0431: 0x6c2,
	0x0446: 0x6c3,
	0x0434: 0x6c4,
	0x0435: 0x6c5,
	0x0444: 0x6c6,
	0x0433: 0x6c7,
	0x0445: 0x6c8,
	0x0438: 0x6c9,
	0x0439: 0x6ca,
	0x043a: 0x6cb,
	0x043b: 0x6cc,
	0x043c: 0x6cd,
	0x043d: 0x6ce,
	0x043e: 0x6cf,
	0x043f: 0x6d0,
	0x044f: 0x6d1,
	0x0440: 0x6d2,
	0x0441: 0x6d3,
	0x0442: 0x6d4,
	0x0443: 0x6d5,
	0x0436: 0x6d6,
	0x0432: 0x6d7,
	0x044c: 0x6d8,
	0x044b: 0x6d9,
	0x0437: 0x6da,
	0x0448: 0x6db,
	0x044d: 0x6dc,
	0x0449: 0x6dd,
	0x0447: 0x6de,
	0x044a: 0x6df,
	0x042e: 0x6e0,
	0x0410: 0x6e1,
	0x0411: 0x6e2,
	0x0426: 0x6e3,
	0x0414: 0x6e4,
	0x0415: 0x6e5,
	0x0424: 0x6e6,
	0x0413: 0x6e7,
	0x0425: 0x6e8,
	0x0418: 0x6e9,
	0x0419: 0x6ea,
	0x041a: 0x6eb,
	0x041b: 0x6ec,
	0x041c: 0x6ed,
	0x041d: 0x6ee,
	0x041e: 0x6ef,
	0x041f: 0x6f0,
	0x042f: 0x6f1,
	0x0420: 0x6f2,
	0x0421: 0x6f3,
	0x0422: 0x6f4,
	0x0423: 0x6f5,
	0x0416: 0x6f6,
	0x0412: 0x6f7,
	0x042c: 0x6f8,
	0x042b: 0x6f9,
	0x0417: 0x6fa,
	0x0428: 0x6fb,
	0x042d: 0x6fc,
	0x0429: 0x6fd,
	0x0427: 0x6fe,
	0x042a: 0x6ff,
	// Greek
	0x0391: 0x7c1,
	0x0392: 0x7c2,
	0x0393: 0x7c3,
	0x0394: 0x7c4,
	0x0395: 0x7c5,
	0x0396: 0x7c6,
	0x0397: 0x7c7,
	0x0398: 0x7c8,
	0x0399: 0x7c9,
	0x039a: 0x7ca,
	0x039b: 0x7cb,
	0x039c: 0x7cc,
	0x039d: 0x7cd,
	0x039e: 0x7ce,
	0x039f: 0x7cf,
	0x03a0: 0x7d0,
	0x03a1: 0x7d1,
	0x03a3: 0x7d2,
	0x03a4: 0x7d4,
	0x03a5: 0x7d5,
	0x03a6: 0x7d6,
	0x03a7: 0x7d7,
	0x03a8: 0x7d8,
	0x03a9: 0x7d9,
	0x03b1: 0x7e1,
	0x03b2: 0x7e2,
	0x03b3: 0x7e3,
	0x03b4: 0x7e4,
	0x03b5: 0x7e5,
	0x03b6: 0x7e6,
	0x03b7: 0x7e7,
	0x03b8: 0x7e8,
	0x03b9: 0x7e9,
	0x03ba: 0x7ea,
	0x03bb: 0x7eb,
	0x03bc: 0x7ec,
	0x03bd: 0x7ed,
	0x03be: 0x7ee,
	0x03bf: 0x7ef,
	0x03c0: 0x7f0,
	0x03c1: 0x7f1,
	0x03c3: 0x7f2,
	0x03c4: 0x7f4,
	0x03c5: 0x7f5,
	0x03c6: 0x7f6,
	0x03c7: 0x7f7,
	0x03c8: 0x7f8,
	0x03c9: 0x7f9,
	0x03c2: 0x7f3,
	// Publishing
	0x2014: 0xaa9,
	0x2013: 0xaaa,
	0x2026: 0xaae,
	0x2018: 0xad0,
	0x2019: 0xad1,
	0x201c: 0xad2,
	0x201d: 0xad3,
	0x201a: 0xafd,
	0x201e: 0xafe,
	0x2020: 0xaf1,
	0x2021: 0xaf2,
	0x2032: 0xad7,
	0x2033: 0xad8,
	0x2122: 0xac9,
	// Currency
	0x20ac: 0x20ac,
}
